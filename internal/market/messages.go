package market

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

// Messaging stores direct messages between users about a listing.
type Messaging struct {
	DB *sql.DB
}

// Send stores a message from senderID to receiverID about listingID.
// Messages about expired listings are allowed; buyers and sellers still need
// to arrange a handoff after an offer is accepted.
func (m *Messaging) Send(ctx context.Context, senderID, receiverID, listingID int64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.InvalidArgument("content required")
	}
	if receiverID <= 0 || listingID <= 0 {
		return nil, model.InvalidArgument("receiver_id and listing_id required")
	}

	receiver, err := store.GetUser(ctx, m.DB, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, model.NotFound("receiver not found")
	}

	listing, err := store.GetListing(ctx, m.DB, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, model.NotFound("listing not found")
	}

	msg, err := store.CreateMessage(ctx, m.DB, senderID, receiverID, listingID, content)
	if err != nil {
		return nil, err
	}

	slog.Debug("message sent", "message", msg.ID, "sender", senderID, "receiver", receiverID, "listing", listingID)
	return msg, nil
}

// List returns userID's messages, oldest first. A non-zero withUserID limits
// the result to the conversation with that user, and a non-zero listingID to
// messages about that listing.
func (m *Messaging) List(ctx context.Context, userID, withUserID, listingID int64) ([]model.Message, error) {
	return store.ListMessages(ctx, m.DB, userID, withUserID, listingID)
}
