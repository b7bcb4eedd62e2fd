// Package market holds the marketplace rules: who may do what to an offer,
// when a listing stops being available, and who may talk to whom.
package market

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

// OfferEngine drives the offer negotiation state machine.
type OfferEngine struct {
	DB       *sql.DB
	Listings *ListingGuard
}

// TransitionRequest asks to move an offer into Status on behalf of ActorID.
type TransitionRequest struct {
	OfferID      int64
	ActorID      int64
	Status       model.OfferStatus
	CounterPrice *float64
	// From is the set of statuses the offer must currently be in.
	// Empty means model.OpenStatuses.
	From []model.OfferStatus
}

// OfferQuery narrows List. A zero Role matches offers on either side.
type OfferQuery struct {
	Role      model.Party
	ListingID int64
	Status    model.OfferStatus
}

// Create records a pending offer from buyerID on a listing.
func (e *OfferEngine) Create(ctx context.Context, buyerID, listingID int64, offeredPrice float64, message string) (*model.Offer, error) {
	if !model.ValidPrice(offeredPrice) {
		return nil, model.InvalidArgument("offered price must be positive")
	}

	listing, err := e.Listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.IsExpired {
		return nil, model.InvalidState("listing is no longer available")
	}
	if listing.OwnerID == buyerID {
		return nil, model.InvalidArgument("cannot make an offer on your own listing")
	}

	offer, err := store.CreateOffer(ctx, e.DB, listing.ID, buyerID, listing.OwnerID, offeredPrice, message)
	if err != nil {
		return nil, err
	}

	slog.Info("offer created", "offer", offer.ID, "listing", listing.ID,
		"buyer", buyerID, "seller", listing.OwnerID, "price", offeredPrice)
	return offer, nil
}

// Get returns an offer visible to actorID.
func (e *OfferEngine) Get(ctx context.Context, offerID, actorID int64) (*model.Offer, error) {
	offer, err := store.GetOffer(ctx, e.DB, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, model.NotFound("offer not found")
	}
	if offer.PartyOf(actorID) == model.PartyNone {
		return nil, model.Forbidden("only the buyer or seller can view an offer")
	}
	return offer, nil
}

// List returns offers where actorID is a party, newest first.
func (e *OfferEngine) List(ctx context.Context, actorID int64, q OfferQuery) ([]model.Offer, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, model.InvalidArgument(fmt.Sprintf("unknown offer status %q", q.Status))
	}

	f := store.OfferFilter{ListingID: q.ListingID, Status: q.Status}
	switch q.Role {
	case model.PartyBuyer:
		f.BuyerID = actorID
	case model.PartySeller:
		f.SellerID = actorID
	default:
		f.PartyID = actorID
	}
	return store.ListOffers(ctx, e.DB, f)
}

// Transition moves an offer into req.Status. The role check happens before
// anything is written. The status change only applies if the offer is still
// in one of req.From, so of two racing transitions exactly one wins. When an
// offer is accepted its listing is expired in the same transaction.
func (e *OfferEngine) Transition(ctx context.Context, req TransitionRequest) (*model.Offer, error) {
	if !model.IsTransitionTarget(req.Status) {
		return nil, model.InvalidArgument(fmt.Sprintf("invalid status %q", req.Status))
	}
	from := req.From
	if len(from) == 0 {
		from = model.OpenStatuses
	}
	for _, s := range from {
		if !s.Valid() {
			return nil, model.InvalidArgument(fmt.Sprintf("invalid status %q", s))
		}
	}

	offer, err := store.GetOffer(ctx, e.DB, req.OfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, model.NotFound("offer not found")
	}

	if !model.CanTransition(offer.PartyOf(req.ActorID), req.Status) {
		return nil, model.Forbidden(forbiddenTransition(req.Status))
	}

	var counter *float64
	if req.Status == model.OfferCountered {
		if req.CounterPrice == nil || !model.ValidPrice(*req.CounterPrice) {
			return nil, model.InvalidArgument("counter price must be positive")
		}
		counter = req.CounterPrice
	}

	var expireErr error
	err = store.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		ok, err := store.SetOfferStatus(ctx, tx, offer.ID, req.Status, counter, from)
		if err != nil {
			return err
		}
		if !ok {
			current, err := store.GetOffer(ctx, tx, offer.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return model.NotFound("offer not found")
			}
			if current.Status.Terminal() {
				return model.InvalidState(fmt.Sprintf("offer is already %s", current.Status))
			}
			return model.InvalidState(fmt.Sprintf("offer is %s and cannot be %s", current.Status, req.Status))
		}

		if req.Status == model.OfferAccepted {
			// The acceptance stands even if the listing cannot be expired here.
			if _, err := store.ExpireListing(ctx, tx, offer.ListingID); err != nil {
				expireErr = err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expireErr != nil {
		slog.Warn("expiring listing with acceptance failed, retrying",
			"offer", offer.ID, "listing", offer.ListingID, "error", expireErr)
		if err := e.Listings.ForceExpire(ctx, offer.ListingID); err != nil {
			slog.Error("listing left available after accepted offer",
				"offer", offer.ID, "listing", offer.ListingID, "error", err)
		}
	}

	slog.Info("offer transitioned", "offer", offer.ID, "from", offer.Status,
		"to", req.Status, "actor", req.ActorID)

	updated, err := store.GetOffer(ctx, e.DB, offer.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, model.NotFound("offer not found")
	}
	return updated, nil
}

// Delete removes a pending offer. Only its buyer may delete it.
func (e *OfferEngine) Delete(ctx context.Context, offerID, actorID int64) error {
	offer, err := store.GetOffer(ctx, e.DB, offerID)
	if err != nil {
		return err
	}
	if offer == nil {
		return model.NotFound("offer not found")
	}
	if offer.BuyerID != actorID {
		return model.Forbidden("only the buyer can delete an offer")
	}
	if offer.Status != model.OfferPending {
		return model.InvalidState("cannot delete a processed offer")
	}

	ok, err := store.DeletePendingOffer(ctx, e.DB, offerID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with a transition.
		return model.InvalidState("cannot delete a processed offer")
	}

	slog.Info("offer deleted", "offer", offerID, "buyer", actorID)
	return nil
}

func forbiddenTransition(target model.OfferStatus) string {
	switch target {
	case model.OfferWithdrawn:
		return "only the buyer can withdraw an offer"
	case model.OfferRejected:
		return "only the buyer or seller can reject an offer"
	default:
		return "only the seller can accept or counter an offer"
	}
}
