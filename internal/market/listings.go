package market

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

// ListingGuard owns a listing's expiry flag. Expiry is observed lazily: a
// listing past its availability date is flipped to expired the next time it
// is read. There is no background sweep.
type ListingGuard struct {
	DB  *sql.DB
	Now func() time.Time
}

func (g *ListingGuard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Create validates and stores a listing owned by ownerID.
func (g *ListingGuard) Create(ctx context.Context, ownerID int64, l model.Listing) (*model.Listing, error) {
	l.OwnerID = ownerID
	l.IsExpired = false
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if !l.AvailableUntil.After(g.now()) {
		return nil, model.InvalidArgument("available_until must be in the future")
	}

	created, err := store.CreateListing(ctx, g.DB, &l)
	if err != nil {
		return nil, err
	}

	slog.Info("listing created", "listing", created.ID, "owner", ownerID, "title", created.Title)
	return created, nil
}

// Get returns a listing with its expiry flag brought up to date.
func (g *ListingGuard) Get(ctx context.Context, id int64) (*model.Listing, error) {
	l, err := store.GetListing(ctx, g.DB, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, model.NotFound("listing not found")
	}
	return g.CheckAndExpire(ctx, l)
}

// List returns listings matching f, applying lazy expiry to each. Listings
// that expire during the read are dropped unless f includes expired ones.
func (g *ListingGuard) List(ctx context.Context, f store.ListingFilter) ([]model.Listing, error) {
	listings, err := store.ListListings(ctx, g.DB, f)
	if err != nil {
		return nil, err
	}

	out := listings[:0]
	for i := range listings {
		l, err := g.CheckAndExpire(ctx, &listings[i])
		if err != nil {
			return nil, err
		}
		if l.IsExpired && !f.IncludeExpired {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

// CheckAndExpire flips l to expired and persists it if it is past its
// availability date. Reading an already expired listing changes nothing.
func (g *ListingGuard) CheckAndExpire(ctx context.Context, l *model.Listing) (*model.Listing, error) {
	if l.IsExpired || !l.PastAvailability(g.now()) {
		return l, nil
	}

	changed, err := store.ExpireListing(ctx, g.DB, l.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		slog.Info("listing expired", "listing", l.ID, "available_until", l.AvailableUntil)
	}

	expired := *l
	expired.IsExpired = true
	return &expired, nil
}

// ForceExpire marks a listing expired regardless of its availability date.
// Expiring an already expired listing is a no-op.
func (g *ListingGuard) ForceExpire(ctx context.Context, id int64) error {
	changed, err := store.ExpireListing(ctx, g.DB, id)
	if err != nil {
		return err
	}
	if changed {
		slog.Info("listing expired", "listing", id, "reason", "offer accepted")
	}
	return nil
}

// Delete removes a listing. Only its owner may delete it.
func (g *ListingGuard) Delete(ctx context.Context, id, actorID int64) error {
	l, err := store.GetListing(ctx, g.DB, id)
	if err != nil {
		return err
	}
	if l == nil {
		return model.NotFound("listing not found")
	}
	if l.OwnerID != actorID {
		return model.Forbidden("only the owner can delete a listing")
	}

	if err := store.DeleteListing(ctx, g.DB, id); err != nil {
		return err
	}

	slog.Info("listing deleted", "listing", id, "owner", actorID)
	return nil
}
