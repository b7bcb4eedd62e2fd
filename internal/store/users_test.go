package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/bazar/internal/db"
	"github.com/erazemk/bazar/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Ana", "ana@student.ubc.ca", "hash123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("expected name 'Ana', got %q", user.Name)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "ana@student.ubc.ca" {
		t.Errorf("expected email 'ana@student.ubc.ca', got %q", got.Email)
	}
	if got.PasswordHash != "hash123" {
		t.Errorf("expected password hash to round-trip, got %q", got.PasswordHash)
	}
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "Ana", "ana@student.ubc.ca", "hash")

	got, err := GetUserByEmail(ctx, database, "ANA@student.ubc.ca")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got == nil {
		t.Fatal("expected user for differently-cased email")
	}

	missing, err := GetUserByEmail(ctx, database, "nobody@student.ubc.ca")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "Ana", "ana@student.ubc.ca", "hash"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := CreateUser(ctx, database, "Ana 2", "Ana@student.ubc.ca", "hash")
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for duplicate email, got %v", err)
	}
	if err.Error() != "user already exists" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
