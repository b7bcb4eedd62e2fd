package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/erazemk/bazar/internal/db"
	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

type negotiationTestContext struct {
	db       *sql.DB
	now      time.Time
	listings *ListingGuard
	offers   *OfferEngine
	users    map[string]*model.User
	items    map[string]*model.Listing
	offer    *model.Offer
	err      error
}

func (c *negotiationTestContext) reset() error {
	database, err := db.OpenMemory()
	if err != nil {
		return err
	}
	c.db = database
	c.now = time.Now().UTC()
	c.listings = &ListingGuard{DB: database, Now: func() time.Time { return c.now }}
	c.offers = &OfferEngine{DB: database, Listings: c.listings}
	c.users = make(map[string]*model.User)
	c.items = make(map[string]*model.Listing)
	c.offer = nil
	c.err = nil
	return nil
}

func (c *negotiationTestContext) user(name string) (*model.User, error) {
	u, ok := c.users[name]
	if !ok {
		return nil, fmt.Errorf("unknown user %q", name)
	}
	return u, nil
}

func (c *negotiationTestContext) aUser(name string) error {
	u, err := store.CreateUser(context.Background(), c.db, name, name+"@student.ubc.ca", "hash")
	if err != nil {
		return err
	}
	c.users[name] = u
	return nil
}

func (c *negotiationTestContext) userListsItem(name, title string, price float64, days int) error {
	u, err := c.user(name)
	if err != nil {
		return err
	}
	l, err := c.listings.Create(context.Background(), u.ID, model.Listing{
		Title:          title,
		Price:          &price,
		AvailableUntil: c.now.Add(time.Duration(days) * 24 * time.Hour),
	})
	if err != nil {
		return err
	}
	c.items[title] = l
	return nil
}

func (c *negotiationTestContext) daysPass(days int) error {
	c.now = c.now.Add(time.Duration(days) * 24 * time.Hour)
	return nil
}

func (c *negotiationTestContext) userOffers(name string, price float64, title string) error {
	u, err := c.user(name)
	if err != nil {
		return err
	}
	l, ok := c.items[title]
	if !ok {
		return fmt.Errorf("unknown listing %q", title)
	}
	offer, err := c.offers.Create(context.Background(), u.ID, l.ID, price, "")
	c.err = err
	if err == nil {
		c.offer = offer
	}
	return nil
}

func (c *negotiationTestContext) transition(name string, status model.OfferStatus, counter *float64) error {
	if c.offer == nil {
		return errors.New("no offer has been made")
	}
	u, err := c.user(name)
	if err != nil {
		return err
	}
	_, c.err = c.offers.Transition(context.Background(), TransitionRequest{
		OfferID:      c.offer.ID,
		ActorID:      u.ID,
		Status:       status,
		CounterPrice: counter,
	})
	return nil
}

func (c *negotiationTestContext) userActsOnOffer(name, action string) error {
	statuses := map[string]model.OfferStatus{
		"accepts":   model.OfferAccepted,
		"rejects":   model.OfferRejected,
		"withdraws": model.OfferWithdrawn,
	}
	status, ok := statuses[action]
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	return c.transition(name, status, nil)
}

func (c *negotiationTestContext) userCountersOffer(name string, price float64) error {
	return c.transition(name, model.OfferCountered, &price)
}

func (c *negotiationTestContext) userDeletesOffer(name string) error {
	if c.offer == nil {
		return errors.New("no offer has been made")
	}
	u, err := c.user(name)
	if err != nil {
		return err
	}
	c.err = c.offers.Delete(context.Background(), c.offer.ID, u.ID)
	return nil
}

func (c *negotiationTestContext) theRequestSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	return nil
}

func (c *negotiationTestContext) theRequestFailsWith(kind string) error {
	kinds := map[string]error{
		"forbidden":        model.ErrForbidden,
		"not found":        model.ErrNotFound,
		"invalid argument": model.ErrInvalidArgument,
		"invalid state":    model.ErrInvalidState,
	}
	want, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %s error, got %v", kind, c.err)
	}
	return nil
}

func (c *negotiationTestContext) theErrorMessageIs(msg string) error {
	if c.err == nil {
		return errors.New("expected an error")
	}
	if c.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %q", msg, c.err.Error())
	}
	return nil
}

func (c *negotiationTestContext) currentOffer() (*model.Offer, error) {
	if c.offer == nil {
		return nil, errors.New("no offer has been made")
	}
	o, err := store.GetOffer(context.Background(), c.db, c.offer.ID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New("offer is gone")
	}
	return o, nil
}

func (c *negotiationTestContext) theOfferIs(status string) error {
	o, err := c.currentOffer()
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected offer %s, got %s", status, o.Status)
	}
	return nil
}

func (c *negotiationTestContext) theOfferHasCounterPrice(price float64) error {
	o, err := c.currentOffer()
	if err != nil {
		return err
	}
	if o.CounterPrice == nil || *o.CounterPrice != price {
		return fmt.Errorf("expected counter price %v, got %v", price, o.CounterPrice)
	}
	return nil
}

func (c *negotiationTestContext) listingIs(title, state string) error {
	l, ok := c.items[title]
	if !ok {
		return fmt.Errorf("unknown listing %q", title)
	}
	got, err := c.listings.Get(context.Background(), l.ID)
	if err != nil {
		return err
	}
	if got.IsExpired != (state == "expired") {
		return fmt.Errorf("expected %q to be %s, is_expired=%v", title, state, got.IsExpired)
	}
	return nil
}

func InitializeNegotiationScenario(ctx *godog.ScenarioContext) {
	tc := &negotiationTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.db != nil {
			tc.db.Close()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a user "([^"]*)"$`, tc.aUser)
	ctx.Step(`^"([^"]*)" lists "([^"]*)" for (\d+(?:\.\d+)?) available for (\d+) days?$`, tc.userListsItem)
	ctx.Step(`^(\d+) days? pass(?:es)?$`, tc.daysPass)

	// When steps
	ctx.Step(`^"([^"]*)" offers (\d+(?:\.\d+)?) on "([^"]*)"$`, tc.userOffers)
	ctx.Step(`^"([^"]*)" (accepts|rejects|withdraws) the offer$`, tc.userActsOnOffer)
	ctx.Step(`^"([^"]*)" counters the offer at (\d+(?:\.\d+)?)$`, tc.userCountersOffer)
	ctx.Step(`^"([^"]*)" deletes the offer$`, tc.userDeletesOffer)

	// Then steps
	ctx.Step(`^the request succeeds$`, tc.theRequestSucceeds)
	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
	ctx.Step(`^the error message is "([^"]*)"$`, tc.theErrorMessageIs)
	ctx.Step(`^the offer is "([^"]*)"$`, tc.theOfferIs)
	ctx.Step(`^the offer has counter price (\d+(?:\.\d+)?)$`, tc.theOfferHasCounterPrice)
	ctx.Step(`^"([^"]*)" is (available|expired)$`, tc.listingIs)
}

func TestNegotiationFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeNegotiationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/negotiation.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
