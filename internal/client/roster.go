package client

import "github.com/anand/student-registry/internal/models"

// Roster mirrors the frontend's list-and-mutate state: a cached student
// list, mutation helpers, and a single last-error slot overwritten by
// whichever operation most recently failed. Every mutation refetches
// the list on success so the cache always matches server truth. Not
// safe for concurrent use.
type Roster struct {
	api      *Client
	students []models.StudentSummary
	lastErr  string
}

// NewRoster fetches the current list and returns the populated state.
func NewRoster(api *Client) (*Roster, error) {
	r := &Roster{api: api}
	if err := r.Refresh(); err != nil {
		return nil, err
	}
	return r, nil
}

// Students returns the cached list.
func (r *Roster) Students() []models.StudentSummary { return r.students }

// LastError returns the message of the most recent failed operation,
// or "" if the last operation succeeded.
func (r *Roster) LastError() string { return r.lastErr }

// Refresh refetches the full list from the server.
func (r *Roster) Refresh() error {
	list, err := r.api.ListStudents()
	if err != nil {
		r.lastErr = err.Error()
		return err
	}
	r.students = list
	r.lastErr = ""
	return nil
}

// Add registers a new student and refetches the list.
func (r *Roster) Add(req models.RegisterRequest) error {
	if _, err := r.api.Register(req); err != nil {
		r.lastErr = err.Error()
		return err
	}
	return r.Refresh()
}

// Update replaces the record with the given id and refetches the list.
func (r *Roster) Update(id int64, req models.RegisterRequest) error {
	if err := r.api.UpdateStudent(id, req); err != nil {
		r.lastErr = err.Error()
		return err
	}
	return r.Refresh()
}

// Delete removes the record with the given id and refetches the list.
func (r *Roster) Delete(id int64) error {
	if err := r.api.DeleteStudent(id); err != nil {
		r.lastErr = err.Error()
		return err
	}
	return r.Refresh()
}
