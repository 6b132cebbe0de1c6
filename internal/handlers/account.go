package handlers

import (
	"errors"
	"net/http"

	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/models"
	"go.uber.org/zap"
)

// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", pageData{LoggedIn: h.loggedIn(r)})
}

/*
handles routes:
- GET /create-account - sign up form
- POST /create-account - register and start a session
*/
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, "create-account", pageData{LoggedIn: h.loggedIn(r)})

	case http.MethodPost:
		h.register(w, r)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/create-account")
		return
	}

	userID, err := h.Credentials.Register(r.Context(), r.PostForm.Get("user-name"), r.PostForm.Get("password"))
	switch {
	case err == nil:
	case errors.Is(err, models.ErrDuplicateUsername):
		h.Metrics.AuthEvent("register", "duplicate")
		h.redirectWithFlash(w, r, i18n.FlashUserExists, "/login")
		return
	case errors.Is(err, models.ErrInvalidUsername):
		h.Metrics.AuthEvent("register", "invalid")
		h.redirectWithFlash(w, r, i18n.FlashInvalidUsername, "/create-account")
		return
	case errors.Is(err, models.ErrInvalidPasswordInput):
		h.Metrics.AuthEvent("register", "invalid")
		h.redirectWithFlash(w, r, i18n.FlashInvalidPassword, "/create-account")
		return
	default:
		h.serverError(w, r, "register user", err)
		return
	}

	if err := h.Sessions.Start(r.Context(), w, userID); err != nil {
		h.serverError(w, r, "start session", err)
		return
	}
	h.Metrics.AuthEvent("register", "success")
	h.Logger.Info("user registered", zap.String("user_id", userID.String()))
	h.redirect(w, r, "/todo-list")
}

/*
handles routes:
- GET /login - login form
- POST /login - verify credentials and start a session
*/
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, "login", pageData{LoggedIn: h.loggedIn(r)})

	case http.MethodPost:
		h.login(w, r)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/login")
		return
	}

	userID, err := h.Credentials.Verify(r.Context(), r.PostForm.Get("user-name"), r.PostForm.Get("password"))
	switch {
	case err == nil:
	case errors.Is(err, models.ErrUnknownUser):
		h.Metrics.AuthEvent("login", "unknown_user")
		h.redirectWithFlash(w, r, i18n.FlashUnknownUser, "/login")
		return
	case errors.Is(err, models.ErrInvalidPassword):
		h.Metrics.AuthEvent("login", "wrong_password")
		h.redirectWithFlash(w, r, i18n.FlashWrongPassword, "/login")
		return
	default:
		h.serverError(w, r, "verify credentials", err)
		return
	}

	if err := h.Sessions.Start(r.Context(), w, userID); err != nil {
		h.serverError(w, r, "start session", err)
		return
	}
	h.Metrics.AuthEvent("login", "success")
	h.redirect(w, r, "/todo-list")
}

// GET /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ Identity) {
	if err := h.Sessions.End(w, r); err != nil {
		h.serverError(w, r, "end session", err)
		return
	}
	h.Metrics.AuthEvent("logout", "success")
	h.redirect(w, r, "/")
}

// loggedIn is used by public pages for navigation only.
func (h *Handler) loggedIn(r *http.Request) bool {
	_, err := h.Sessions.Current(r)
	if err != nil && !errors.Is(err, models.ErrUnauthenticated) {
		h.Logger.Warn("resolve session", zap.Error(err))
	}
	return err == nil
}
