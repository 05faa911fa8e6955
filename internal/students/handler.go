package students

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anand/student-registry/internal/auth"
	"github.com/anand/student-registry/internal/models"
	"github.com/anand/student-registry/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Store defines the student persistence the CRUD handlers need.
type Store interface {
	CreateStudent(ctx context.Context, st *models.Student) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context) ([]models.StudentSummary, error)
	Update(ctx context.Context, id int64, st *models.Student) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Handler holds the students CRUD HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Create inserts a new student through the same hashed-credential path
// as registration. There is no plaintext-password insert.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"email and password are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("students create: email lookup failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error":"user already exists"}`, http.StatusConflict)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("students create: password hash failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	id, err := h.store.CreateStudent(r.Context(), &models.Student{
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
		log.Error().Err(err).Msg("students create: insert failed")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "student created", "id": id})
}

// List returns every student in summary projection.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("students list failed")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.StudentSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Update overwrites the row matching the URL id with the request body.
// A nonexistent id is reported as success with zero rows changed.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	st := models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Contact:   req.Contact,
	}
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("students update: password hash failed")
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		st.Password = hashed
	}

	rows, err := h.store.Update(r.Context(), id, &st)
	if err != nil {
		log.Error().Err(err).Msg("students update failed")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		log.Debug().Int64("id", id).Msg("update matched no rows")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "student updated"})
}

// Delete removes the row matching the URL id. Deleting twice is safe.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}

	rows, err := h.store.Delete(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("students delete failed")
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		log.Debug().Int64("id", id).Msg("delete matched no rows")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "student deleted"})
}
