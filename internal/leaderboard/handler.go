package leaderboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

// MaxLimit caps the limit query parameter.
const MaxLimit = 100

// NewRouter returns a router serving the health check and the leaderboard
// API. defaultLimit applies when the request has no limit parameter.
// Callers may add more routes to it.
func NewRouter(store Store, defaultLimit int, logger *log.Logger) *mux.Router {
	h := &handler{store: store, limit: defaultLimit, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet, http.MethodHead)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard", h.top).Methods(http.MethodGet)
	return r
}

// NewHandler is NewRouter as a plain http.Handler.
func NewHandler(store Store, defaultLimit int, logger *log.Logger) http.Handler {
	return NewRouter(store, defaultLimit, logger)
}

type handler struct {
	store  Store
	limit  int
	logger *log.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) top(w http.ResponseWriter, r *http.Request) {
	limit := h.limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	limit = min(limit, MaxLimit)

	records, err := h.store.Top(r.Context(), limit)
	if err != nil {
		h.logger.Error("leaderboard query failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "leaderboard unavailable"})
		return
	}
	if records == nil {
		records = []Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
