package market

import (
	"context"
	"testing"

	"github.com/erazemk/bazar/internal/db"
	"github.com/erazemk/bazar/internal/model"
)

func TestSendMessage(t *testing.T) {
	f := newFixture(t, db.NewTestDB(t))
	ctx := context.Background()
	sam := f.user(t, "sam")
	bea := f.user(t, "bea")
	l := f.listing(t, sam.ID, "Desk", 50)

	msg, err := f.messaging.Send(ctx, bea.ID, sam.ID, l.ID, "is it still available?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.SenderID != bea.ID || msg.ReceiverID != sam.ID || msg.ListingID != l.ID {
		t.Errorf("unexpected message: %+v", msg)
	}

	_, err = f.messaging.Send(ctx, bea.ID, sam.ID, l.ID, "   ")
	wantKind(t, err, model.ErrInvalidArgument)

	_, err = f.messaging.Send(ctx, bea.ID, 0, l.ID, "hi")
	wantKind(t, err, model.ErrInvalidArgument)

	_, err = f.messaging.Send(ctx, bea.ID, 999, l.ID, "hi")
	wantKind(t, err, model.ErrNotFound)

	_, err = f.messaging.Send(ctx, bea.ID, sam.ID, 999, "hi")
	wantKind(t, err, model.ErrNotFound)
}

func TestSendMessageAboutExpiredListing(t *testing.T) {
	f := newFixture(t, db.NewTestDB(t))
	ctx := context.Background()
	sam := f.user(t, "sam")
	bea := f.user(t, "bea")
	l := f.listing(t, sam.ID, "Desk", 50)

	if err := f.listings.ForceExpire(ctx, l.ID); err != nil {
		t.Fatalf("ForceExpire: %v", err)
	}
	if _, err := f.messaging.Send(ctx, sam.ID, bea.ID, l.ID, "pick up at 5?"); err != nil {
		t.Errorf("Send about expired listing: %v", err)
	}
}

func TestListConversation(t *testing.T) {
	f := newFixture(t, db.NewTestDB(t))
	ctx := context.Background()
	sam := f.user(t, "sam")
	bea := f.user(t, "bea")
	oli := f.user(t, "oli")
	l := f.listing(t, sam.ID, "Desk", 50)

	for _, m := range []struct {
		from, to int64
		text     string
	}{
		{bea.ID, sam.ID, "first"},
		{sam.ID, bea.ID, "second"},
		{oli.ID, sam.ID, "unrelated"},
		{bea.ID, sam.ID, "third"},
	} {
		if _, err := f.messaging.Send(ctx, m.from, m.to, l.ID, m.text); err != nil {
			t.Fatalf("Send(%s): %v", m.text, err)
		}
	}

	conv, err := f.messaging.List(ctx, sam.ID, bea.ID, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, m := range conv {
		got = append(got, m.Content)
	}
	if len(got) != 3 || got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Errorf("unexpected conversation %v", got)
	}

	all, _ := f.messaging.List(ctx, sam.ID, 0, 0)
	if len(all) != 4 {
		t.Errorf("expected 4 messages for sam, got %d", len(all))
	}
}
