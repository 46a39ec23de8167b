package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role роль пользователя API
type Role string

const (
	RoleViewer Role = "viewer" // Только чтение мира
	RoleEditor Role = "editor" // Изменение чанков и проходов
	RoleAdmin  Role = "admin"  // Управление пользователями и регенерация мира
)

// User учётная запись API
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// NewUser создаёт пользователя с хэшированным паролем
func NewUser(username, password string, role Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CanEdit возвращает true, если роль позволяет менять мир
func (u *User) CanEdit() bool {
	return u.Role == RoleEditor || u.Role == RoleAdmin
}

// IsAdmin возвращает true для администраторов
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
