package models

import "time"

// Student represents a row in the PostgreSQL students table.
type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Contact   string    `json:"contact"`
	Password  string    `json:"-"` // bcrypt hash, never serialize
	CreatedAt time.Time `json:"created_at"`
}

// StudentSummary is the projection returned from list endpoints.
type StudentSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
}

// Summary projects the record to its list representation.
func (s *Student) Summary() StudentSummary {
	return StudentSummary{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Contact:   s.Contact,
	}
}

// RegisterRequest is the JSON body for POST /api/register and
// POST /api/students (both run the same hashed creation path).
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Password  string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
