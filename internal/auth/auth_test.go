package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenIssueVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user, err := NewUser("miner", "pass", RoleEditor)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}

	token, err := tm.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Username != "miner" || claims.Role != RoleEditor {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	user, _ := NewUser("miner", "pass", RoleViewer)
	token, _ := NewTokenManager("secret-a", time.Hour).Issue(user)

	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)
	user, _ := NewUser("miner", "pass", RoleViewer)
	token, _ := tm.Issue(user)

	if _, err := tm.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	user, err := NewUser("admin", "pass", RoleAdmin)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup, _ := NewUser("admin", "other", RoleViewer)
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	found, err := repo.ByUsername(ctx, "admin")
	if err != nil || found.ID != user.ID {
		t.Errorf("ByUsername: %v, %v", found, err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.ByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	// Имя освобождено
	if err := repo.Create(ctx, dup); err != nil {
		t.Errorf("username not freed after delete: %v", err)
	}
}

func TestRoles(t *testing.T) {
	viewer, _ := NewUser("v", "p", RoleViewer)
	editor, _ := NewUser("e", "p", RoleEditor)
	admin, _ := NewUser("a", "p", RoleAdmin)

	if viewer.CanEdit() || viewer.IsAdmin() {
		t.Error("viewer has elevated rights")
	}
	if !editor.CanEdit() || editor.IsAdmin() {
		t.Error("editor rights wrong")
	}
	if !admin.CanEdit() || !admin.IsAdmin() {
		t.Error("admin rights wrong")
	}
}
