package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/chepyr/go-todo-list/internal/todo"
)

const flashCookieName = "flash"

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(todo.DateLayout)
		},
	}
	for _, page := range []string{"index", "create-account", "login", "todos"} {
		pages[page] = template.Must(template.New("base.html").Funcs(funcs).
			ParseFS(templateFS, "templates/base.html", "templates/"+page+".html"))
	}
}

type pageData struct {
	LoggedIn bool
	Flash    string
	UserName string
	Tasks    []*models.Task
}

// render executes a page into a buffer first so a template failure still
// produces a clean 500. Any pending flash message is consumed.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	tmpl, ok := pages[page]
	if !ok {
		h.serverError(w, r, "render page", fmt.Errorf("unknown page %q", page))
		return
	}

	if messageID := h.takeFlash(w, r); messageID != "" {
		data.Flash = h.Translator.Localize(messageID, r.Header.Get("Accept-Language"))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.serverError(w, r, "render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) setFlash(w http.ResponseWriter, messageID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    messageID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value
}
