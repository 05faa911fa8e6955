// Package registry serves the static JSON configuration documents the
// frontend uses to render forms, themes and labels. Documents are
// loaded once at startup and never mutated at runtime.
package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Registry holds loaded documents keyed by file base name.
type Registry struct {
	docs map[string]json.RawMessage
}

// Load reads every *.json file in dir. A missing directory yields an
// empty registry; a malformed document is a startup error.
func Load(dir string) (*Registry, error) {
	reg := &Registry{docs: make(map[string]json.RawMessage)}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("registry read %s: %w", entry.Name(), err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("registry document %s is not valid JSON", entry.Name())
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		reg.docs[name] = json.RawMessage(data)
	}
	return reg, nil
}

// Get returns the raw document for name.
func (r *Registry) Get(name string) (json.RawMessage, bool) {
	doc, ok := r.docs[name]
	return doc, ok
}

// Names returns the loaded document names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.docs))
	for name := range r.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListHandler returns the names of all loaded documents.
func (r *Registry) ListHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"documents": r.Names()})
}

// GetHandler returns a single document verbatim.
func (r *Registry) GetHandler(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")
	doc, ok := r.Get(name)
	if !ok {
		http.Error(w, `{"error":"no such document"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}
