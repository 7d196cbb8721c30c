// Package server exposes the time-entry store over HTTP. Handlers are thin:
// they parse path parameters, call one store operation, and serialize the
// result. All timer semantics live in the store.
package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sadopc/timecard/internal/store"
)

type Server struct {
	store  *store.Store
	logger *slog.Logger
}

func New(s *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: s, logger: logger}
}

// Handler returns the routed HTTP handler.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /full_state", srv.handleFullState)
	mux.HandleFunc("POST /time_entries/day/{day}", srv.handleCreateEntry)
	mux.HandleFunc("PUT /time_entries/{id}/play", srv.handlePlay)
	mux.HandleFunc("PUT /time_entries/{id}/pause", srv.handlePause)
	mux.HandleFunc("PUT /time_entries/{id}/add_time/{delta}", srv.handleAddTime)
	mux.HandleFunc("PUT /time_entries/{id}/time/{total}", srv.handleSetTime)
	mux.HandleFunc("PUT /time_entries/{id}/note", srv.handleUpdateNote)
	mux.HandleFunc("PUT /time_entries/{id}/charge_code/{code_id}", srv.handleUpdateChargeCode)
	mux.HandleFunc("PUT /time_entries/update", srv.handleUpsert)
	mux.HandleFunc("POST /time_entries/replay", srv.handleReplay)
	mux.HandleFunc("DELETE /time_entries/{id}", srv.handleDelete)
	mux.HandleFunc("GET /time_entries/costpoint", srv.handleCostpoint)
	mux.HandleFunc("GET /charge_codes", srv.handleChargeCodes)
	mux.HandleFunc("POST /admin/cleanup", srv.handleCleanup)

	return srv.logRequests(mux)
}

// ListenAndServe runs the server on addr until the listener fails.
func (srv *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv.logger.Info("listening", "addr", addr)
	return httpServer.ListenAndServe()
}

func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		srv.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (srv *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.logger.Error("encode response", "error", err)
	}
}

// writeError maps store failures onto the response: a missing row is the
// caller's mistake, anything else is an internal error logged server-side.
func (srv *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	srv.logger.Error("store error", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func pathInt(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
