package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the authenticated caller, resolved once per request.
type Identity struct {
	UserID   uuid.UUID
	UserName string
}

type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

/*
RequireSession resolves the caller from the session cookie and passes it
to next. Anonymous callers are sent to the login page.
*/
func (h *Handler) RequireSession(next AuthedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.Sessions.Current(r)
		if errors.Is(err, models.ErrUnauthenticated) {
			h.redirectWithFlash(w, r, i18n.FlashLoginRequired, "/login")
			return
		}
		if err != nil {
			h.serverError(w, r, "resolve session", err)
			return
		}

		user, err := h.Credentials.Lookup(r.Context(), userID)
		if errors.Is(err, models.ErrUnknownUser) {
			// the account is gone but its session survived
			if err := h.Sessions.End(w, r); err != nil {
				h.Logger.Warn("end orphaned session", zap.Error(err))
			}
			h.redirectWithFlash(w, r, i18n.FlashLoginRequired, "/login")
			return
		}
		if err != nil {
			h.serverError(w, r, "load user", err)
			return
		}

		next(w, r, Identity{UserID: user.ID, UserName: user.UserName})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

func (rec *statusRecorder) Status() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// LogRequests writes one log line per request. 5xx are logged as errors.
func (h *Handler) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.Int("status", rec.Status()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
			zap.Duration("latency", time.Since(start)),
		}
		if rec.Status() >= http.StatusInternalServerError {
			h.Logger.Error("http request", fields...)
			return
		}
		h.Logger.Info("http request", fields...)
	})
}

// Recover turns a panic in a handler into a 500.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.serverError(w, r, "panic in handler", fmt.Errorf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
