package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/bazar/internal/model"
)

const listingColumns = `l.id, l.owner_id, l.title, l.description, l.price, l.is_free, l.is_trade,
	l.is_expired, l.available_until, l.category, l.location,
	l.created_at, l.updated_at, l.deleted_at, u.name AS owner_name`

// ListingFilter narrows ListListings. Zero values match everything.
type ListingFilter struct {
	OwnerID  int64
	Category string
	Location string
	// MinPrice and MaxPrice bound the price when positive. Free and trade
	// listings have no price and never match a bound.
	MinPrice       float64
	MaxPrice       float64
	IncludeExpired bool
}

// CreateListing stores a new listing owned by l.OwnerID.
func CreateListing(ctx context.Context, db *sql.DB, l *model.Listing) (*model.Listing, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO listings (owner_id, title, description, price, is_free, is_trade,
		                       available_until, category, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.OwnerID, l.Title, l.Description, l.Price, l.IsFree, l.IsTrade,
		l.AvailableUntil.UTC(), l.Category, l.Location,
	)
	if err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting listing id: %w", err)
	}

	return GetListing(ctx, db, id)
}

// GetListing returns a non-deleted listing by ID.
func GetListing(ctx context.Context, db Querier, id int64) (*model.Listing, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+listingColumns+`
		 FROM listings l
		 JOIN users u ON u.id = l.owner_id
		 WHERE l.id = ? AND l.deleted_at IS NULL`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting listing: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}
	return &listings[0], nil
}

// ListListings returns non-deleted listings, newest first.
func ListListings(ctx context.Context, db *sql.DB, f ListingFilter) ([]model.Listing, error) {
	query := `SELECT ` + listingColumns + `
	          FROM listings l
	          JOIN users u ON u.id = l.owner_id
	          WHERE l.deleted_at IS NULL`
	var args []any

	if f.OwnerID > 0 {
		query += ` AND l.owner_id = ?`
		args = append(args, f.OwnerID)
	}
	if f.Category != "" {
		query += ` AND l.category = ?`
		args = append(args, f.Category)
	}
	if f.Location != "" {
		query += ` AND l.location = ?`
		args = append(args, f.Location)
	}
	if f.MinPrice > 0 {
		query += ` AND l.price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query += ` AND l.price <= ?`
		args = append(args, f.MaxPrice)
	}
	if !f.IncludeExpired {
		query += ` AND l.is_expired = 0`
	}

	query += ` ORDER BY l.created_at DESC, l.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// ExpireListing marks a listing expired. It reports whether this call changed
// anything; expiring an already expired listing is a no-op.
func ExpireListing(ctx context.Context, db Querier, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE listings SET is_expired = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_expired = 0`, id,
	)
	if err != nil {
		return false, fmt.Errorf("expiring listing: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expiring listing: %w", err)
	}
	return n > 0, nil
}

// DeleteListing soft-deletes a listing. Offers and messages keep referring to it.
func DeleteListing(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE listings SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	return nil
}

func scanListings(rows *sql.Rows) ([]model.Listing, error) {
	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var description, category, location sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &description, &price, &l.IsFree, &l.IsTrade,
			&l.IsExpired, &l.AvailableUntil, &category, &location,
			&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt, &l.OwnerName); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		l.Description = description.String
		l.Category = category.String
		l.Location = location.String
		if price.Valid {
			p := price.Float64
			l.Price = &p
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
