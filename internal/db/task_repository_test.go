package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func insertUser(t *testing.T, dbx *sqlx.DB, name string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), UserName: name, PasswordHash: "hash"}
	if err := NewUserRepository(dbx).Create(context.Background(), user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return user
}

func newTask(owner uuid.UUID, title string, created time.Time) *models.Task {
	return &models.Task{
		ID:          uuid.New(),
		UserID:      owner,
		Title:       title,
		DateCreated: created,
	}
}

func TestTaskRepository_Create_List_Toggle(t *testing.T) {
	dbx := setupTestDB(t)
	repo := NewTaskRepository(dbx)
	owner := insertUser(t, dbx, "alice")

	now := time.Now().UTC()
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := newTask(owner.ID, "Buy milk", now)
	task.Details = "2 liters"
	task.DueAt = &due

	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("TaskRepository.Create: %v", err)
	}

	list, err := repo.ListByUserID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("TaskRepository.ListByUserID: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(list))
	}
	got := list[0]
	if got.ID != task.ID || got.Title != "Buy milk" || got.Details != "2 liters" || got.Completed {
		t.Errorf("ListByUserID mismatch: %+v", got)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, got.DueAt)
	}

	if err := repo.SetCompleted(context.Background(), task.ID, true); err != nil {
		t.Fatalf("TaskRepository.SetCompleted: %v", err)
	}
	after, err := repo.GetForOwner(context.Background(), task.ID, owner.ID)
	if err != nil {
		t.Fatalf("TaskRepository.GetForOwner: %v", err)
	}
	if !after.Completed {
		t.Errorf("SetCompleted not applied: %+v", after)
	}
}

func TestTaskRepository_OptionalFields(t *testing.T) {
	dbx := setupTestDB(t)
	repo := NewTaskRepository(dbx)
	owner := insertUser(t, dbx, "alice")

	task := newTask(owner.ID, "No extras", time.Now().UTC())
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("Create task: %v", err)
	}

	got, err := repo.GetForOwner(context.Background(), task.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetForOwner: %v", err)
	}
	if got.Details != "" || got.DueAt != nil {
		t.Errorf("Expected empty details and nil due date, got %+v", got)
	}
}

func TestTaskRepository_ListByUserID_IsolatesOwners(t *testing.T) {
	dbx := setupTestDB(t)
	repo := NewTaskRepository(dbx)
	alice := insertUser(t, dbx, "alice")
	bob := insertUser(t, dbx, "bob")

	base := time.Now().UTC()
	owners := []uuid.UUID{alice.ID, bob.ID, alice.ID, bob.ID, alice.ID}
	for i, owner := range owners {
		task := newTask(owner, "task", base.Add(time.Duration(i)*time.Millisecond))
		if err := repo.Create(context.Background(), task); err != nil {
			t.Fatalf("Create task %d: %v", i, err)
		}
	}

	aliceTasks, err := repo.ListByUserID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(aliceTasks) != 3 {
		t.Fatalf("Expected 3 tasks for alice, got %d", len(aliceTasks))
	}
	for i, task := range aliceTasks {
		if task.UserID != alice.ID {
			t.Errorf("Task %s belongs to %s, want %s", task.ID, task.UserID, alice.ID)
		}
		if i > 0 && task.DateCreated.Before(aliceTasks[i-1].DateCreated) {
			t.Errorf("Tasks not in creation order at index %d", i)
		}
	}

	empty, err := repo.ListByUserID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListByUserID for unknown user: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty list, got %+v", empty)
	}
}

func TestTaskRepository_GetForOwner_NotFound(t *testing.T) {
	dbx := setupTestDB(t)
	repo := NewTaskRepository(dbx)
	alice := insertUser(t, dbx, "alice")
	bob := insertUser(t, dbx, "bob")

	task := newTask(alice.ID, "private", time.Now().UTC())
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("Create task: %v", err)
	}

	if _, err := repo.GetForOwner(context.Background(), uuid.New(), alice.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown task, got %v", err)
	}
	if _, err := repo.GetForOwner(context.Background(), task.ID, bob.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign task, got %v", err)
	}
}

func TestTaskRepository_Create_UnknownOwner(t *testing.T) {
	dbx := setupTestDB(t)
	repo := NewTaskRepository(dbx)

	// random owner, does not exist
	task := newTask(uuid.New(), "Orphan task", time.Now().UTC())
	if err := repo.Create(context.Background(), task); err == nil {
		t.Fatal("Expected error when creating task for unknown user, got nil")
	}
}
