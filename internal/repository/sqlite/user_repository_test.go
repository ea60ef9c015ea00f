package sqlite

import (
	"context"
	"errors"
	"testing"

	"weather-api/internal/domain"
	"weather-api/internal/repository"
)

func testUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	repo := NewUserRepository(openTestDB(t))
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init user repository: %v", err)
	}
	return repo
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := testUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "admin", PasswordHash: "hash"}
	id, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected default role admin, got %q", user.Role)
	}

	byName, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != id || byName.PasswordHash != "hash" {
		t.Errorf("unexpected user: %+v", byName)
	}

	byID, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Username != "admin" {
		t.Errorf("unexpected user: %+v", byID)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := testUserRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.User{Username: "admin", PasswordHash: "h1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, &domain.User{Username: "admin", PasswordHash: "h2"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := testUserRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdatePassword(ctx, 42, "h"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	repo := testUserRepo(t)
	ctx := context.Background()

	user := &domain.User{Username: "admin", PasswordHash: "old"}
	id, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdatePassword(ctx, id, "new"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
