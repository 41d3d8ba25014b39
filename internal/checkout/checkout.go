package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/storekit/storefront/internal/api"
	"github.com/storekit/storefront/internal/domain"
)

// State is the coordinator's position in the submission flow.
type State string

const (
	// StateIdle - the shipping form is shown, nothing submitted yet.
	StateIdle State = "IDLE"
	// StateSubmitting - an order request is in flight; further submits are rejected.
	StateSubmitting State = "SUBMITTING"
	// StateSucceeded - the order was accepted. Terminal for this flow.
	StateSucceeded State = "SUCCEEDED"
	// StateFailed - the last submit failed; the form stays populated and
	// resubmission is allowed.
	StateFailed State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateSucceeded
}

func (s State) String() string {
	return string(s)
}

// Submitter sends a finalized order to the remote API.
type Submitter interface {
	CreateOrder(ctx context.Context, order domain.Order) (api.OrderResult, error)
}

// Confirmation is everything the success screen renders. It is built from
// the checkout snapshot, so it stays valid even if the catalog changes.
type Confirmation struct {
	OrderID  string
	PlacedAt time.Time
	Customer domain.CustomerDetails
	Lines    []domain.SnapshotLine
	Total    decimal.Decimal
}

// Coordinator drives one checkout session over an immutable cart snapshot.
// It only reads the snapshot; quantities are never touched here.
type Coordinator struct {
	submitter Submitter
	log       logrus.FieldLogger

	mu       sync.Mutex
	state    State
	snapshot domain.CartSnapshot
	details  domain.CustomerDetails
	failure  string
	result   *Confirmation

	clock func() time.Time
	newID func() string
}

// New starts a checkout session. Entering checkout with an empty cart is
// invalid: the guard runs before any state is initialized and the caller is
// expected to redirect back to the catalog.
func New(snapshot domain.CartSnapshot, submitter Submitter, log logrus.FieldLogger) (*Coordinator, error) {
	if snapshot.Empty() {
		return nil, domain.ErrEmptyCart
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		submitter: submitter,
		log:       log,
		state:     StateIdle,
		snapshot:  snapshot,
		clock:     time.Now,
		newID:     uuid.NewString,
	}, nil
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Snapshot() domain.CartSnapshot {
	return c.snapshot
}

// Details returns the last entered form fields. They survive a failed
// submission so the user never retypes them.
func (c *Coordinator) Details() domain.CustomerDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Failure returns the human-readable reason of the last failed submit.
func (c *Coordinator) Failure() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Confirmation returns the accepted order, if any.
func (c *Coordinator) Confirmation() (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Confirmation{}, false
	}
	return *c.result, true
}

// Submit validates the customer details and sends exactly one order-creation
// request. A submit while another is in flight is rejected, as is any submit
// after the order has been accepted. Validation failures never reach the
// network.
func (c *Coordinator) Submit(ctx context.Context, details domain.CustomerDetails) (Confirmation, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return Confirmation{}, domain.ErrSubmitInFlight
	case StateSucceeded:
		c.mu.Unlock()
		return Confirmation{}, domain.ErrOrderPlaced
	}

	c.details = details
	if err := details.Validate(); err != nil {
		c.mu.Unlock()
		return Confirmation{}, err
	}

	c.state = StateSubmitting
	c.failure = ""
	c.mu.Unlock()

	order := c.buildOrder(details)
	res, err := c.submitter.CreateOrder(ctx, order)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		c.failure = failureReason(err)
		c.log.WithError(err).Warn("order submission failed")
		return Confirmation{}, err
	}

	orderID := res.OrderID
	if orderID == "" {
		// The server did not issue an id; generate a local one so the
		// confirmation can still reference the order.
		orderID = c.newID()
	}

	conf := Confirmation{
		OrderID:  orderID,
		PlacedAt: c.clock(),
		Customer: details,
		Lines:    c.snapshot.Lines,
		Total:    c.snapshot.Total,
	}
	c.result = &conf
	c.state = StateSucceeded
	c.log.WithField("order_id", orderID).Info("order placed")
	return conf, nil
}

// buildOrder turns the checkout snapshot into the outbound order. The order
// is constructed once per submit and never mutated afterwards.
func (c *Coordinator) buildOrder(details domain.CustomerDetails) domain.Order {
	order := domain.Order{
		Customer: details,
		Total:    c.snapshot.Total,
	}
	for _, line := range c.snapshot.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return order
}

// failureReason picks the most specific message available: the server's
// detail when there is one, otherwise the transport error.
func failureReason(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
