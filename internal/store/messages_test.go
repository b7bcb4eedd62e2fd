package store

import (
	"context"
	"testing"

	"github.com/erazemk/bazar/internal/db"
)

func TestCreateMessage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	sam := mustUser(t, database, "sam")
	bea := mustUser(t, database, "bea")
	desk := mustListing(t, database, sam.ID, "Desk", 50)

	msg, err := CreateMessage(ctx, database, bea.ID, sam.ID, desk.ID, "is the desk still there?")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.SenderName != "bea" || msg.ReceiverName != "sam" || msg.ListingTitle != "Desk" {
		t.Errorf("unexpected joined fields: %+v", msg)
	}
}

func TestListMessagesConversationOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	sam := mustUser(t, database, "sam")
	bea := mustUser(t, database, "bea")
	kim := mustUser(t, database, "kim")
	desk := mustListing(t, database, sam.ID, "Desk", 50)
	chair := mustListing(t, database, sam.ID, "Chair", 20)

	CreateMessage(ctx, database, bea.ID, sam.ID, desk.ID, "hi")
	CreateMessage(ctx, database, sam.ID, bea.ID, desk.ID, "hello")
	CreateMessage(ctx, database, kim.ID, sam.ID, desk.ID, "still available?")
	CreateMessage(ctx, database, bea.ID, sam.ID, chair.ID, "and the chair?")

	all, _ := ListMessages(ctx, database, sam.ID, 0, 0)
	if len(all) != 4 {
		t.Fatalf("expected 4 messages for sam, got %d", len(all))
	}

	withBea, _ := ListMessages(ctx, database, sam.ID, bea.ID, 0)
	if len(withBea) != 3 {
		t.Fatalf("expected 3 messages between sam and bea, got %d", len(withBea))
	}
	want := []string{"hi", "hello", "and the chair?"}
	for i, m := range withBea {
		if m.Content != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], m.Content)
		}
	}

	aboutDesk, _ := ListMessages(ctx, database, bea.ID, sam.ID, desk.ID)
	if len(aboutDesk) != 2 {
		t.Errorf("expected 2 messages about the desk, got %d", len(aboutDesk))
	}

	forKim, _ := ListMessages(ctx, database, kim.ID, bea.ID, 0)
	if len(forKim) != 0 {
		t.Errorf("expected no messages between kim and bea, got %d", len(forKim))
	}
}
