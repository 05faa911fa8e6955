// Package client is a thin typed wrapper over the registry service's
// HTTP API, plus the state helpers the frontend drives it with.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anand/student-registry/internal/models"
)

// Client calls the student-registry API over HTTP. It is not safe for
// concurrent use; callers issue one request at a time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// checkResp returns an error carrying the upstream body when the status
// is not 2xx.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

// Register calls POST /api/register and returns the new record's id.
func (c *Client) Register(req models.RegisterRequest) (int64, error) {
	var result struct {
		ID int64 `json:"id"`
	}
	if err := c.do(http.MethodPost, "/api/register", req, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// Login calls POST /api/login and keeps the returned token for
// subsequent authenticated calls.
func (c *Client) Login(email, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := c.do(http.MethodPost, "/api/login", models.LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return "", err
	}
	c.token = result.Token
	return result.Token, nil
}

// Logout calls POST /api/logout and clears the held token.
func (c *Client) Logout() error {
	err := c.do(http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	return err
}

// Profile calls GET /api/profile for the logged-in student.
func (c *Client) Profile() (*models.Student, error) {
	var st models.Student
	if err := c.do(http.MethodGet, "/api/profile", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Status calls GET /api/status.
func (c *Client) Status() (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(http.MethodGet, "/api/status", nil, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListStudents calls GET /api/students.
func (c *Client) ListStudents() ([]models.StudentSummary, error) {
	var list []models.StudentSummary
	if err := c.do(http.MethodGet, "/api/students", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStudent calls PUT /api/students/{id}.
func (c *Client) UpdateStudent(id int64, req models.RegisterRequest) error {
	return c.do(http.MethodPut, fmt.Sprintf("/api/students/%d", id), req, nil)
}

// DeleteStudent calls DELETE /api/students/{id}.
func (c *Client) DeleteStudent(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, nil)
}
