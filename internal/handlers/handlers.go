package handlers

import (
	"context"
	"net/http"

	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CredentialService interface {
	Register(ctx context.Context, userName, password string) (uuid.UUID, error)
	Verify(ctx context.Context, userName, password string) (uuid.UUID, error)
	Lookup(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SessionService interface {
	Start(ctx context.Context, w http.ResponseWriter, userID uuid.UUID) error
	Current(r *http.Request) (uuid.UUID, error)
	End(w http.ResponseWriter, r *http.Request) error
}

type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, details, dueAt string) (uuid.UUID, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)
	ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
}

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds everything a request needs. Identity is never stored here;
// it is resolved per request and passed to protected handlers.
type Handler struct {
	Credentials CredentialService
	Sessions    SessionService
	Tasks       TaskService
	Translator  *i18n.Translator
	Metrics     *Metrics
	Logger      *zap.Logger
	DB          Pinger
	// SecureCookies marks the flash cookie Secure.
	SecureCookies bool
}

/*
Routes registers:
- GET / - landing page
- GET, POST /create-account
- GET, POST /login
- GET /logout
- GET, POST /todo-list
- GET /checked/{taskId}
- GET /healthz, GET /metrics
*/
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("/create-account", h.CreateAccount)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("GET /logout", h.RequireSession(h.Logout))
	mux.HandleFunc("/todo-list", h.RequireSession(h.TodoList))
	mux.HandleFunc("GET /checked/{taskId}", h.RequireSession(h.Checked))

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", h.Metrics.Handler())

	return h.LogRequests(h.Metrics.Instrument(h.Recover(mux)))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			h.Logger.Error("health check failed", zap.Error(err))
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// redirectWithFlash stores a one-shot message for the next rendered page.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, messageID, path string) {
	h.setFlash(w, messageID)
	h.redirect(w, r, path)
}

// serverError logs the cause and answers with a body that reveals nothing.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.Logger.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
