package auth

import (
	"context"
	"sync"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	users     map[string]*models.User
	createErr error
	getErr    error
	mutex     sync.Mutex
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.UserName]; exists {
		return models.ErrDuplicateUsername
	}
	m.users[user.UserName] = user
	return nil
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	user, exists := m.users[userName]
	if !exists {
		return nil, models.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, models.ErrNotFound
}

func SetupMockUser(userName, password string) *MockUserRepository {
	repo := NewMockUserRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repo.users[userName] = &models.User{
		ID:           uuid.New(),
		UserName:     userName,
		PasswordHash: string(hash),
	}
	return repo
}

type MockSessionRepository struct {
	sessions map[uuid.UUID]*models.Session
	getErr   error
	mutex    sync.Mutex
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	session, exists := m.sessions[id]
	if !exists {
		return nil, models.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepository) count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}
