// Package api exposes the bot's small operational HTTP surface: a health
// check and the build version. There is intentionally no data surface
// here — snapshots are write-mostly and queried nowhere.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Pinger reports whether the snapshot store is reachable.
type Pinger interface {
	Ping() error
}

// NewHandler returns the operational HTTP handler.
func NewHandler(store Pinger, version string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(store))
	r.Get("/version", handleVersion(version))

	return r
}

func handleHealth(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func handleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"version": version})
	}
}
