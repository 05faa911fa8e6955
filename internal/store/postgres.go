package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anand/student-registry/internal/models"
)

// ErrEmailExists is returned when an insert would violate the unique
// email constraint.
var ErrEmailExists = errors.New("email already registered")

// PostgresStore handles student CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the students table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			id         BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name  VARCHAR(100) NOT NULL,
			username   VARCHAR(50)  NOT NULL,
			email      VARCHAR(255) UNIQUE NOT NULL,
			contact    VARCHAR(50)  NOT NULL DEFAULT '',
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

// CreateStudent inserts a new row and returns the assigned id. The
// password field must already be hashed by the caller.
func (s *PostgresStore) CreateStudent(ctx context.Context, st *models.Student) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO students (first_name, last_name, username, email, contact, password)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		st.FirstName, st.LastName, st.Username, st.Email, st.Contact, st.Password,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("create student: %w", err)
	}
	return id, nil
}

// GetByEmail returns the student with the given email, or (nil, nil)
// when no such row exists.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var st models.Student
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, username, email, contact, password, created_at
		 FROM students WHERE email = $1`, email,
	).Scan(&st.ID, &st.FirstName, &st.LastName, &st.Username, &st.Email, &st.Contact, &st.Password, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByID returns the student with the given id, or (nil, nil) when no
// such row exists.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var st models.Student
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, username, email, contact, password, created_at
		 FROM students WHERE id = $1`, id,
	).Scan(&st.ID, &st.FirstName, &st.LastName, &st.Username, &st.Email, &st.Contact, &st.Password, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// List returns all students projected to their summary form. Passwords
// never leave the database through this query.
func (s *PostgresStore) List(ctx context.Context) ([]models.StudentSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, contact FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StudentSummary
	for rows.Next() {
		var sum models.StudentSummary
		if err := rows.Scan(&sum.ID, &sum.FirstName, &sum.LastName, &sum.Email, &sum.Contact); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Update overwrites all mutable columns for the row matching id and
// returns the number of rows affected. Updating a nonexistent id is a
// no-op, not an error. An empty password leaves the stored hash alone.
func (s *PostgresStore) Update(ctx context.Context, id int64, st *models.Student) (int64, error) {
	var tag pgconn.CommandTag
	var err error
	if st.Password == "" {
		tag, err = s.pool.Exec(ctx,
			`UPDATE students SET first_name = $1, last_name = $2, username = $3, email = $4, contact = $5
			 WHERE id = $6`,
			st.FirstName, st.LastName, st.Username, st.Email, st.Contact, id)
	} else {
		tag, err = s.pool.Exec(ctx,
			`UPDATE students SET first_name = $1, last_name = $2, username = $3, email = $4, contact = $5, password = $6
			 WHERE id = $7`,
			st.FirstName, st.LastName, st.Username, st.Email, st.Contact, st.Password, id)
	}
	if err != nil {
		return 0, fmt.Errorf("update student: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the row matching id and returns the number of rows
// affected. Deleting a nonexistent id is a no-op, not an error.
func (s *PostgresStore) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	return tag.RowsAffected(), nil
}
