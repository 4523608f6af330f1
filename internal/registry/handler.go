package registry

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Service string `json:"service"`
	BaseURL string `json:"baseUrl"`
}

// NewRouter exposes the registry over HTTP.
func NewRouter(store *Store) http.Handler {
	r := chi.NewRouter()

	r.Post("/registry/services", func(w http.ResponseWriter, req *http.Request) {
		var body registerRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Service == "" || body.BaseURL == "" {
			http.Error(w, "service and baseUrl required", http.StatusBadRequest)
			return
		}

		inst := store.Register(body.Service, body.BaseURL)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(inst)
	})

	r.Put("/registry/services/{service}/{id}/heartbeat", func(w http.ResponseWriter, req *http.Request) {
		service := chi.URLParam(req, "service")
		id := chi.URLParam(req, "id")
		if err := store.Heartbeat(service, id); err != nil {
			http.Error(w, "instance not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Delete("/registry/services/{service}/{id}", func(w http.ResponseWriter, req *http.Request) {
		store.Deregister(chi.URLParam(req, "service"), chi.URLParam(req, "id"))
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/registry/services/{service}", func(w http.ResponseWriter, req *http.Request) {
		instances := store.Instances(chi.URLParam(req, "service"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(instances)
	})

	return r
}
