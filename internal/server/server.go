// Package server exposes a remote.Store over HTTP for `leaf serve`.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/remote"
)

const maxBodyBytes = 8 << 20

type ctxKey int

const subjectKey ctxKey = 0

type Server struct {
	store  remote.Store
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

func New(store remote.Store, tokens *auth.TokenIssuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, tokens: tokens, logger: logger}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	users := r.PathPrefix("/v1/users/{userID}").Subrouter()
	users.Use(s.authenticate)
	users.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	users.HandleFunc("/settings", s.putSettings).Methods(http.MethodPut)
	users.HandleFunc("/transactions", s.getTransactions).Methods(http.MethodGet)
	users.HandleFunc("/transactions", s.putTransactions).Methods(http.MethodPut)
	return r
}

// Handler wraps the router with Apache-style access logging to accessLog.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	return handlers.LoggingHandler(accessLog, s.Router())
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, accessLog io.Writer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(accessLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("remote replica listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down remote replica")
		return srv.Shutdown(shutdownCtx)
	}
}

// authenticate verifies the bearer token and rejects requests whose path
// user is not the token subject.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authorization header required")
			return
		}
		subject, err := s.tokens.Parse(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		if userID := mux.Vars(r)["userID"]; userID != subject {
			s.logger.Warn("cross-user request rejected", "subject", subject, "user_id", userID)
			writeError(w, http.StatusForbidden, "forbidden", "token does not grant access to this user")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	})
}

func userFrom(r *http.Request) string {
	subject, _ := r.Context().Value(subjectKey).(string)
	return subject
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	row, err := s.store.SelectSettings(r.Context(), userFrom(r))
	if err != nil {
		s.storeError(w, "select settings", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var row remote.SettingsRow
	if !decodeBody(w, r, &row) {
		return
	}
	if err := s.store.UpsertSettings(r.Context(), userFrom(r), row.Settings, row.UpdatedAt); err != nil {
		s.storeError(w, "upsert settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.SelectTransactions(r.Context(), userFrom(r))
	if err != nil {
		s.storeError(w, "select transactions", err)
		return
	}
	if rows == nil {
		rows = []remote.TransactionRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) putTransactions(w http.ResponseWriter, r *http.Request) {
	var rows []remote.TransactionRow
	if !decodeBody(w, r, &rows) {
		return
	}
	for _, row := range rows {
		if row.Transaction.ID == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "transaction id is required")
			return
		}
	}
	if err := s.store.UpsertTransactions(r.Context(), userFrom(r), rows); err != nil {
		s.storeError(w, "upsert transactions", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, remote.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no record for this user")
		return
	}
	s.logger.Error("remote store failure", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal", "remote store failure")
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, remote.ErrorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
