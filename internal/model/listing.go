package model

import (
	"math"
	"strings"
	"time"
)

// Listing is an item offered for sale, for free, or for trade.
// Price is nil when the listing is free or a trade.
type Listing struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Price          *float64   `json:"price"`
	IsFree         bool       `json:"is_free"`
	IsTrade        bool       `json:"is_trade"`
	IsExpired      bool       `json:"is_expired"`
	AvailableUntil time.Time  `json:"available_until"`
	Category       string     `json:"category,omitempty"`
	Location       string     `json:"location,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	OwnerName string `json:"owner_name,omitempty"`
}

// Validate checks the listing's own fields. Exactly one price mode applies:
// a positive price, free, or trade.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return InvalidArgument("title required")
	}
	if l.IsFree && l.IsTrade {
		return InvalidArgument("a listing cannot be both free and for trade")
	}
	if l.IsFree || l.IsTrade {
		if l.Price != nil {
			return InvalidArgument("free and trade listings cannot have a price")
		}
	} else if l.Price == nil || !ValidPrice(*l.Price) {
		return InvalidArgument("price must be positive unless the listing is free or for trade")
	}
	if l.AvailableUntil.IsZero() {
		return InvalidArgument("available_until required")
	}
	return nil
}

// ValidPrice reports whether v is usable as a price: positive and finite.
func ValidPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// PastAvailability reports whether now is after the listing's availability window.
func (l *Listing) PastAvailability(now time.Time) bool {
	return now.After(l.AvailableUntil)
}
