package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anand/student-registry/internal/models"
	"github.com/anand/student-registry/internal/store"
)

// StudentStore is the slice of student persistence the auth flow needs.
type StudentStore interface {
	CreateStudent(ctx context.Context, st *models.Student) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	students StudentStore
	sessions Store
}

func NewHandler(students StudentStore, sessions Store) *Handler {
	return &Handler{students: students, sessions: sessions}
}

type emailKey struct{}

// WithEmail stores the authenticated email in the request context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// EmailFrom returns the authenticated email placed by the auth middleware.
func EmailFrom(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey{}).(string)
	return email, ok
}

// TokenFromHeader extracts the bearer token from the Authorization
// header. A "Bearer " prefix is accepted but not required.
func TokenFromHeader(r *http.Request) string {
	h := r.Header.Get("Authorization")
	return strings.TrimPrefix(h, "Bearer ")
}

// Register creates a new student with a hashed password. This is the
// only creation path; POST /api/students routes here too.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"email and password are required"}`, http.StatusBadRequest)
		return
	}

	// Reject duplicates before writing anything; the unique constraint
	// on email is the backstop for races between the check and insert.
	existing, err := h.students.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("register: email lookup failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error":"user already exists"}`, http.StatusConflict)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("register: password hash failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	id, err := h.students.CreateStudent(r.Context(), &models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Contact:   req.Contact,
		Password:  hashed,
	})
	if errors.Is(err, store.ErrEmailExists) {
		http.Error(w, `{"error":"user already exists"}`, http.StatusConflict)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("register: insert failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "registered", "id": id})
}

// Login verifies credentials and mints a session token. Unknown email
// and wrong password produce the same response, deliberately.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	st, err := h.students.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("login: email lookup failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if st == nil || !CheckPassword(st.Password, req.Password) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Create(r.Context(), st.Email)
	if err != nil {
		log.Error().Err(err).Msg("login: session creation failed")
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Logout destroys the presented session. Missing or unknown tokens
// still get a success response.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := TokenFromHeader(r); token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			log.Warn().Err(err).Msg("logout: session delete failed")
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Profile returns the record behind the authenticated session. The
// password hash is excluded by the model's JSON tags.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	email, ok := EmailFrom(r.Context())
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	st, err := h.students.GetByEmail(r.Context(), email)
	if err != nil {
		log.Error().Err(err).Msg("profile: lookup failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if st == nil {
		// Record deleted since the session was minted.
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}
