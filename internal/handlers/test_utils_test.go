package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/chepyr/go-todo-list/internal/auth"
	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/chepyr/go-todo-list/internal/todo"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/mattn/go-sqlite3"
)

type testApp struct {
	handler *Handler
	server  *httptest.Server
	db      *sqlx.DB
	users   *db.UserRepository
	tasks   *todo.TaskStore
}

// newTestApp wires the real stores over an in-memory database and serves
// them over HTTP.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbx, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })
	if err := db.Migrate(context.Background(), dbx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	translator, err := i18n.New()
	if err != nil {
		t.Fatalf("translator: %v", err)
	}

	users := db.NewUserRepository(dbx)
	tasks := todo.NewTaskStore(db.NewTaskRepository(dbx))
	h := &Handler{
		Credentials: auth.NewCredentialStore(users, bcrypt.MinCost),
		Sessions:    auth.NewSessionManager(db.NewSessionRepository(dbx), strings.Repeat("k", 32), time.Hour, false),
		Tasks:       tasks,
		Translator:  translator,
		Metrics:     NewMetrics(prometheus.NewRegistry()),
		Logger:      zap.NewNop(),
		DB:          dbx,
	}

	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)

	return &testApp{handler: h, server: server, db: dbx, users: users, tasks: tasks}
}

// newClient keeps cookies and does not follow redirects.
func (app *testApp) newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (app *testApp) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(app.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (app *testApp) post(t *testing.T, client *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(app.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (app *testApp) register(t *testing.T, client *http.Client, userName, password string) {
	t.Helper()
	resp, _ := app.post(t, client, "/create-account", url.Values{"user-name": {userName}, "password": {password}})
	assertRedirect(t, resp, "/todo-list")
}

func (app *testApp) user(t *testing.T, userName string) *models.User {
	t.Helper()
	user, err := app.users.GetByUserName(context.Background(), userName)
	if err != nil {
		t.Fatalf("GetByUserName(%s): %v", userName, err)
	}
	return user
}

func (app *testApp) tasksOf(t *testing.T, userName string) []*models.Task {
	t.Helper()
	tasks, err := app.tasks.ListByOwner(context.Background(), app.user(t, userName).ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	return tasks
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("want 302, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("want redirect to %s, got %s", location, got)
	}
}

func hasCookie(resp *http.Response, name string) bool {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value != "" {
			return true
		}
	}
	return false
}
