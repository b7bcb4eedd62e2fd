package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/bazar/internal/model"
)

func mustUser(t *testing.T, database *sql.DB, name string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, name, name+"@student.ubc.ca", "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func mustListing(t *testing.T, database *sql.DB, ownerID int64, title string, price float64) *model.Listing {
	t.Helper()
	l, err := CreateListing(context.Background(), database, &model.Listing{
		OwnerID:        ownerID,
		Title:          title,
		Price:          &price,
		AvailableUntil: time.Now().Add(7 * 24 * time.Hour),
		Category:       "furniture",
		Location:       "Vanier",
	})
	if err != nil {
		t.Fatalf("CreateListing(%s): %v", title, err)
	}
	return l
}
