package auth

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository хранит учётные записи API
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	ByUsername(ctx context.Context, username string) (*User, error)
	ByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// MemoryUserRepo хранит пользователей в памяти. Для тестов и dev-запуска.
type MemoryUserRepo struct {
	mu     sync.RWMutex
	byID   map[string]*User
	byName map[string]*User
}

// NewMemoryUserRepo создаёт пустой репозиторий пользователей
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:   make(map[string]*User),
		byName: make(map[string]*User),
	}
}

// Create добавляет пользователя; имя должно быть уникально
func (r *MemoryUserRepo) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[user.Username]; taken {
		return ErrUserExists
	}
	r.byID[user.ID] = user
	r.byName[user.Username] = user
	return nil
}

// ByUsername возвращает пользователя по имени
func (r *MemoryUserRepo) ByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ByID возвращает пользователя по идентификатору
func (r *MemoryUserRepo) ByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List возвращает всех пользователей
func (r *MemoryUserRepo) List(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, u)
	}
	return result, nil
}

// Delete удаляет пользователя
func (r *MemoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byName, user.Username)
	return nil
}

// Close освобождает ресурсы (для памяти — no-op)
func (r *MemoryUserRepo) Close(_ context.Context) error { return nil }
