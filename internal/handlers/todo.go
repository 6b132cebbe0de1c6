package handlers

import (
	"errors"
	"net/http"

	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
)

/*
handles routes:
- GET /todo-list - list the user's tasks
- POST /todo-list - create a task, then show the updated list
*/
func (h *Handler) TodoList(w http.ResponseWriter, r *http.Request, id Identity) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.listTasks(w, r, id)

	case http.MethodPost:
		h.createTask(w, r, id)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request, id Identity) {
	tasks, err := h.Tasks.ListByOwner(r.Context(), id.UserID)
	if err != nil {
		h.serverError(w, r, "list tasks", err)
		return
	}
	h.render(w, r, "todos", pageData{
		LoggedIn: true,
		UserName: id.UserName,
		Tasks:    tasks,
	})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request, id Identity) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/todo-list")
		return
	}

	_, err := h.Tasks.Create(r.Context(), id.UserID,
		r.PostForm.Get("task-title"),
		r.PostForm.Get("task-details"),
		r.PostForm.Get("complete-date"),
	)
	if err != nil {
		if messageID, ok := taskFlash(err); ok {
			h.Metrics.TaskEvent("create", "invalid")
			h.redirectWithFlash(w, r, messageID, "/todo-list")
			return
		}
		h.serverError(w, r, "create task", err)
		return
	}
	h.Metrics.TaskEvent("create", "success")
	h.listTasks(w, r, id)
}

// GET /checked/{taskId}
func (h *Handler) Checked(w http.ResponseWriter, r *http.Request, id Identity) {
	taskID, err := uuid.Parse(r.PathValue("taskId"))
	if err != nil {
		h.Metrics.TaskEvent("toggle", "not_found")
		h.redirectWithFlash(w, r, i18n.FlashTaskNotFound, "/todo-list")
		return
	}

	if _, err := h.Tasks.ToggleCompleted(r.Context(), id.UserID, taskID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.Metrics.TaskEvent("toggle", "not_found")
			h.redirectWithFlash(w, r, i18n.FlashTaskNotFound, "/todo-list")
			return
		}
		h.serverError(w, r, "toggle task", err)
		return
	}
	h.Metrics.TaskEvent("toggle", "success")
	h.redirect(w, r, "/todo-list")
}

func taskFlash(err error) (string, bool) {
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		return i18n.FlashInvalidDate, true
	case errors.Is(err, models.ErrInvalidTitle):
		return i18n.FlashInvalidTitle, true
	case errors.Is(err, models.ErrInvalidDetails):
		return i18n.FlashInvalidDetails, true
	}
	return "", false
}
