package market

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

type fixture struct {
	db        *sql.DB
	now       time.Time
	listings  *ListingGuard
	offers    *OfferEngine
	messaging *Messaging
}

func newFixture(t *testing.T, database *sql.DB) *fixture {
	t.Helper()
	f := &fixture{db: database, now: time.Now().UTC()}
	f.listings = &ListingGuard{DB: database, Now: func() time.Time { return f.now }}
	f.offers = &OfferEngine{DB: database, Listings: f.listings}
	f.messaging = &Messaging{DB: database}
	return f
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), f.db, name, name+"@student.ubc.ca", "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func (f *fixture) listing(t *testing.T, ownerID int64, title string, price float64) *model.Listing {
	t.Helper()
	l, err := f.listings.Create(context.Background(), ownerID, model.Listing{
		Title:          title,
		Price:          &price,
		AvailableUntil: f.now.Add(24 * time.Hour),
		Category:       "furniture",
		Location:       "Vanier",
	})
	if err != nil {
		t.Fatalf("Create listing %s: %v", title, err)
	}
	return l
}

func (f *fixture) offer(t *testing.T, listingID, buyerID int64, price float64) *model.Offer {
	t.Helper()
	o, err := f.offers.Create(context.Background(), buyerID, listingID, price, "")
	if err != nil {
		t.Fatalf("Create offer: %v", err)
	}
	return o
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
