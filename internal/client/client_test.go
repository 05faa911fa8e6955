package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anand/student-registry/internal/auth"
	"github.com/anand/student-registry/internal/middleware"
	"github.com/anand/student-registry/internal/models"
	"github.com/anand/student-registry/internal/store"
	"github.com/anand/student-registry/internal/students"
)

// memStore is an in-memory implementation of both the auth and students
// store interfaces, backing a real router for client tests.
type memStore struct {
	nextID int64
	rows   map[int64]models.Student
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[int64]models.Student)}
}

func (m *memStore) CreateStudent(_ context.Context, st *models.Student) (int64, error) {
	for _, row := range m.rows {
		if row.Email == st.Email {
			return 0, store.ErrEmailExists
		}
	}
	m.nextID++
	cp := *st
	cp.ID = m.nextID
	m.rows[cp.ID] = cp
	return cp.ID, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, row := range m.rows {
		if row.Email == email {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context) ([]models.StudentSummary, error) {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []models.StudentSummary
	for _, id := range ids {
		row := m.rows[id]
		out = append(out, row.Summary())
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int64, st *models.Student) (int64, error) {
	row, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	row.FirstName = st.FirstName
	row.LastName = st.LastName
	row.Username = st.Username
	row.Email = st.Email
	row.Contact = st.Contact
	if st.Password != "" {
		row.Password = st.Password
	}
	m.rows[id] = row
	return 1, nil
}

func (m *memStore) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

// newTestServer wires the real handlers the way cmd/server does.
func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	ms := newMemStore()
	sessions := auth.NewMemoryStore(auth.SessionTTL)
	authHandler := auth.NewHandler(ms, sessions)
	studentsHandler := students.NewHandler(ms)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/profile", authHandler.Profile)
		r.Route("/students", func(r chi.Router) {
			r.Post("/", studentsHandler.Create)
			r.Get("/", studentsHandler.List)
			r.Put("/{id}", studentsHandler.Update)
			r.Delete("/{id}", studentsHandler.Delete)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, ms
}

func sampleRequest(email string) models.RegisterRequest {
	return models.RegisterRequest{
		FirstName: "Meena",
		LastName:  "Pillai",
		Username:  "meena",
		Email:     email,
		Contact:   "555-0103",
		Password:  "pass123",
	}
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	status, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
}

func TestLoginAndProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	id, err := c.Register(sampleRequest("meena@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	token, err := c.Login("meena@example.com", "pass123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	profile, err := c.Profile()
	require.NoError(t, err)
	assert.Equal(t, "meena@example.com", profile.Email)
	assert.Equal(t, "Meena", profile.FirstName)
	assert.Empty(t, profile.Password)

	require.NoError(t, c.Logout())
	_, err = c.Profile()
	require.Error(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	_, err := c.Register(sampleRequest("meena@example.com"))
	require.NoError(t, err)

	_, err = c.Login("meena@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRosterMutationsTrackServerTruth(t *testing.T) {
	srv, ms := newTestServer(t)
	c := New(srv.URL)

	roster, err := NewRoster(c)
	require.NoError(t, err)
	assert.Empty(t, roster.Students())

	require.NoError(t, roster.Add(sampleRequest("meena@example.com")))
	require.Len(t, roster.Students(), 1)
	assert.Equal(t, "meena@example.com", roster.Students()[0].Email)

	updated := sampleRequest("meena@example.com")
	updated.Contact = "555-7777"
	updated.Password = ""
	require.NoError(t, roster.Update(roster.Students()[0].ID, updated))
	assert.Equal(t, "555-7777", roster.Students()[0].Contact)

	// Delete refetches too; the cache matches the server exactly.
	require.NoError(t, roster.Delete(roster.Students()[0].ID))
	assert.Empty(t, roster.Students())
	assert.Empty(t, ms.rows)
	assert.Empty(t, roster.LastError())
}

func TestRosterLastErrorSlot(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	roster, err := NewRoster(c)
	require.NoError(t, err)

	require.NoError(t, roster.Add(sampleRequest("meena@example.com")))

	// Duplicate add fails and lands in the error slot.
	err = roster.Add(sampleRequest("meena@example.com"))
	require.Error(t, err)
	assert.Contains(t, roster.LastError(), "already exists")
	assert.Len(t, roster.Students(), 1)

	// The next success overwrites the slot.
	require.NoError(t, roster.Add(sampleRequest("other@example.com")))
	assert.Empty(t, roster.LastError())
	assert.Len(t, roster.Students(), 2)
}

func TestFormSubmitCreatesThenClears(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	roster, err := NewRoster(c)
	require.NoError(t, err)

	form := NewForm(roster)
	form.SetField("firstName", "Meena")
	form.SetField("lastName", "Pillai")
	form.SetField("username", "meena")
	form.SetField("email", "meena@example.com")
	form.SetField("contact", "555-0103")
	form.SetField("password", "pass123")
	form.SetField("favoriteColor", "teal") // stray input, ignored

	require.NoError(t, form.Submit())
	assert.Equal(t, models.RegisterRequest{}, form.Fields())
	assert.False(t, form.Editing())
	require.Len(t, roster.Students(), 1)
}

func TestFormFailedSubmitPreservesState(t *testing.T) {
	srv, _ := newTestServer(t)
	c := New(srv.URL)

	roster, err := NewRoster(c)
	require.NoError(t, err)
	require.NoError(t, roster.Add(sampleRequest("meena@example.com")))

	form := NewForm(roster)
	form.SetField("firstName", "Dup")
	form.SetField("email", "meena@example.com")
	form.SetField("password", "pass123")

	require.Error(t, form.Submit())

	// Nothing was cleared; the user can fix the email and resubmit.
	assert.Equal(t, "Dup", form.Fields().FirstName)
	assert.Equal(t, "meena@example.com", form.Fields().Email)

	form.SetField("email", "dup@example.com")
	require.NoError(t, form.Submit())
	assert.Equal(t, models.RegisterRequest{}, form.Fields())
	assert.Len(t, roster.Students(), 2)
}

func TestFormEditDispatchesUpdate(t *testing.T) {
	srv, ms := newTestServer(t)
	c := New(srv.URL)

	roster, err := NewRoster(c)
	require.NoError(t, err)
	require.NoError(t, roster.Add(sampleRequest("meena@example.com")))

	form := NewForm(roster)
	form.Edit(roster.Students()[0])
	require.True(t, form.Editing())

	form.SetField("contact", "555-8888")
	require.NoError(t, form.Submit())

	assert.False(t, form.Editing())
	assert.Equal(t, "555-8888", ms.rows[1].Contact)
	assert.Equal(t, "555-8888", roster.Students()[0].Contact)
}
