package model

import (
	"slices"
	"time"
)

// OfferStatus is the negotiation state of an offer.
type OfferStatus string

// Offer statuses.
const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// OpenStatuses are the statuses an offer can still be transitioned out of
// unless a caller asks for a different precondition.
var OpenStatuses = []OfferStatus{OfferPending, OfferCountered}

// Valid reports whether s is a known status.
func (s OfferStatus) Valid() bool {
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferCountered, OfferWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s OfferStatus) Terminal() bool {
	return s == OfferAccepted || s == OfferRejected || s == OfferWithdrawn
}

// Party is the side of an offer a user is on.
type Party int

const (
	PartyNone Party = iota
	PartyBuyer
	PartySeller
)

func (p Party) String() string {
	switch p {
	case PartyBuyer:
		return "buyer"
	case PartySeller:
		return "seller"
	default:
		return "none"
	}
}

// transitionParties lists who may move an offer into each target status.
var transitionParties = map[OfferStatus][]Party{
	OfferAccepted:  {PartySeller},
	OfferRejected:  {PartyBuyer, PartySeller},
	OfferCountered: {PartySeller},
	OfferWithdrawn: {PartyBuyer},
}

// IsTransitionTarget reports whether s can be requested as a transition target.
// Pending is only ever the initial status.
func IsTransitionTarget(s OfferStatus) bool {
	_, ok := transitionParties[s]
	return ok
}

// CanTransition reports whether party p may move an offer into target.
func CanTransition(p Party, target OfferStatus) bool {
	return slices.Contains(transitionParties[target], p)
}

// Offer is a buyer's proposed price on a listing.
// CounterPrice is set if and only if Status is OfferCountered.
type Offer struct {
	ID           int64       `json:"id"`
	ListingID    int64       `json:"listing_id"`
	BuyerID      int64       `json:"buyer_id"`
	SellerID     int64       `json:"seller_id"`
	OfferedPrice float64     `json:"offered_price"`
	Message      string      `json:"message,omitempty"`
	Status       OfferStatus `json:"status"`
	CounterPrice *float64    `json:"counter_price"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Joined fields (not always populated).
	ListingTitle string   `json:"listing_title,omitempty"`
	ListingPrice *float64 `json:"listing_price,omitempty"`
	BuyerName    string   `json:"buyer_name,omitempty"`
	BuyerEmail   string   `json:"buyer_email,omitempty"`
	SellerName   string   `json:"seller_name,omitempty"`
	SellerEmail  string   `json:"seller_email,omitempty"`
}

// PartyOf returns which side of the offer userID is on.
func (o *Offer) PartyOf(userID int64) Party {
	switch userID {
	case o.BuyerID:
		return PartyBuyer
	case o.SellerID:
		return PartySeller
	default:
		return PartyNone
	}
}
