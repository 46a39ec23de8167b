package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword хэширует пароль bcrypt-ом со стандартной стоимостью
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хэшем
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
