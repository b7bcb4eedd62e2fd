package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/bazar/internal/model"
)

const offerSelect = `SELECT o.id, o.listing_id, o.buyer_id, o.seller_id, o.offered_price, o.message,
	       o.status, o.counter_price, o.created_at, o.updated_at,
	       l.title AS listing_title, l.price AS listing_price,
	       b.name AS buyer_name, b.email AS buyer_email,
	       s.name AS seller_name, s.email AS seller_email
	FROM offers o
	JOIN listings l ON l.id = o.listing_id
	JOIN users b ON b.id = o.buyer_id
	JOIN users s ON s.id = o.seller_id`

// OfferFilter narrows ListOffers. Zero values match everything.
type OfferFilter struct {
	BuyerID  int64
	SellerID int64
	// PartyID matches offers where the user is either buyer or seller.
	PartyID   int64
	ListingID int64
	Status    model.OfferStatus
}

// CreateOffer stores a new pending offer.
func CreateOffer(ctx context.Context, db *sql.DB, listingID, buyerID, sellerID int64, offeredPrice float64, message string) (*model.Offer, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO offers (listing_id, buyer_id, seller_id, offered_price, message)
		 VALUES (?, ?, ?, ?, ?)`,
		listingID, buyerID, sellerID, offeredPrice, message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting offer id: %w", err)
	}

	return GetOffer(ctx, db, id)
}

// GetOffer returns an offer by ID with listing, buyer and seller details.
func GetOffer(ctx context.Context, db Querier, id int64) (*model.Offer, error) {
	rows, err := db.QueryContext(ctx, offerSelect+` WHERE o.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting offer: %w", err)
	}
	defer rows.Close()

	offers, err := scanOffers(rows)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}
	return &offers[0], nil
}

// ListOffers returns offers, newest first.
func ListOffers(ctx context.Context, db *sql.DB, f OfferFilter) ([]model.Offer, error) {
	query := offerSelect + ` WHERE 1=1`
	var args []any

	if f.BuyerID > 0 {
		query += ` AND o.buyer_id = ?`
		args = append(args, f.BuyerID)
	}
	if f.SellerID > 0 {
		query += ` AND o.seller_id = ?`
		args = append(args, f.SellerID)
	}
	if f.PartyID > 0 {
		query += ` AND (o.buyer_id = ? OR o.seller_id = ?)`
		args = append(args, f.PartyID, f.PartyID)
	}
	if f.ListingID > 0 {
		query += ` AND o.listing_id = ?`
		args = append(args, f.ListingID)
	}
	if f.Status != "" {
		query += ` AND o.status = ?`
		args = append(args, string(f.Status))
	}

	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// SetOfferStatus moves an offer to status, provided its current status is one
// of from. The check and the write are a single statement, so concurrent
// callers serialize on the row. counterPrice is stored only for countered
// offers and cleared otherwise. It reports whether the offer was updated.
func SetOfferStatus(ctx context.Context, db Querier, id int64, status model.OfferStatus, counterPrice *float64, from []model.OfferStatus) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("setting offer status: empty precondition set")
	}
	if status != model.OfferCountered {
		counterPrice = nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(from)), ", ")
	args := []any{string(status), counterPrice, id}
	for _, s := range from {
		args = append(args, string(s))
	}

	result, err := db.ExecContext(ctx,
		`UPDATE offers SET status = ?, counter_price = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("setting offer status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting offer status: %w", err)
	}
	return n > 0, nil
}

// DeletePendingOffer deletes an offer if it is still pending and belongs to
// buyerID. It reports whether a row was deleted.
func DeletePendingOffer(ctx context.Context, db *sql.DB, id, buyerID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM offers WHERE id = ? AND buyer_id = ? AND status = ?`,
		id, buyerID, string(model.OfferPending),
	)
	if err != nil {
		return false, fmt.Errorf("deleting offer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting offer: %w", err)
	}
	return n > 0, nil
}

func scanOffers(rows *sql.Rows) ([]model.Offer, error) {
	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		var status string
		var counter, listingPrice sql.NullFloat64
		if err := rows.Scan(&o.ID, &o.ListingID, &o.BuyerID, &o.SellerID, &o.OfferedPrice, &o.Message,
			&status, &counter, &o.CreatedAt, &o.UpdatedAt,
			&o.ListingTitle, &listingPrice,
			&o.BuyerName, &o.BuyerEmail,
			&o.SellerName, &o.SellerEmail); err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		o.Status = model.OfferStatus(status)
		if counter.Valid {
			c := counter.Float64
			o.CounterPrice = &c
		}
		if listingPrice.Valid {
			p := listingPrice.Float64
			o.ListingPrice = &p
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
