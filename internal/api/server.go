// Package api exposes the cycle engine over a REST/JSON surface. The
// handlers are deliberately thin: decode, call the engine, map the
// domain error onto a status code, encode. All invariants live in the
// engine and the store.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Amanshah2829/fund-manager-test/internal/auth"
	"github.com/Amanshah2829/fund-manager-test/internal/engine"
	"github.com/Amanshah2829/fund-manager-test/internal/middleware"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

// Server wires the engine and its collaborators to HTTP routes.
type Server struct {
	engine *engine.Engine
	store  storage.Store
	auth   auth.Authenticator
	jwt    *auth.JWTManager
}

// NewServer creates a Server over the given collaborators.
func NewServer(eng *engine.Engine, store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{
		engine: eng,
		store:  store,
		auth:   authenticator,
		jwt:    jwtManager,
	}
}

// Router builds the route table. Everything under /api except login
// requires a Bearer token.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.RequireAuth(s.jwt))

	protected.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	protected.HandleFunc("/groups", s.handleCreateGroup).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}", s.handleGetGroup).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{groupId}/members", s.handleAddMember).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}/withdrawals", s.handleListWithdrawals).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{groupId}/withdrawals", s.handleRecordWithdrawal).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}/next-cycle", s.handleNextCycle).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}/dues", s.handleGetDues).Methods(http.MethodGet)
	protected.HandleFunc("/payments", s.handleListPayments).Methods(http.MethodGet)
	protected.HandleFunc("/payments", s.handleRecordPayment).Methods(http.MethodPost)
	protected.HandleFunc("/payments/bulk", s.handleBulkPayments).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/logs", s.handleListNotificationLogs).Methods(http.MethodGet)

	return middleware.Logging(r)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500 with a generic message; the detail goes to the
// log, not the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrNotAMember):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrAlreadyPaid),
		errors.Is(err, engine.ErrDuplicateSettlement),
		errors.Is(err, engine.ErrAlreadyWon),
		errors.Is(err, engine.ErrGroupFull):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrGroupClosed),
		errors.Is(err, engine.ErrGroupAlreadyClosed),
		errors.Is(err, engine.ErrInvalidAmount):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
