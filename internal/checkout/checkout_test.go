package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/api"
	"github.com/storekit/storefront/internal/domain"
)

type mockSubmitter struct {
	m       sync.Mutex
	calls   int
	result  api.OrderResult
	err     error
	started chan struct{} // closed once a call is in flight, when non-nil
	release chan struct{} // blocks the call until closed, when non-nil
}

func (s *mockSubmitter) CreateOrder(context.Context, domain.Order) (api.OrderResult, error) {
	s.m.Lock()
	s.calls++
	started := s.started
	release := s.release
	s.m.Unlock()

	if started != nil {
		close(started)
		s.m.Lock()
		s.started = nil
		s.m.Unlock()
	}
	if release != nil {
		<-release
	}

	s.m.Lock()
	defer s.m.Unlock()
	return s.result, s.err
}

func (s *mockSubmitter) callCount() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.calls
}

func snapshotWith(lines ...domain.SnapshotLine) domain.CartSnapshot {
	snap := domain.CartSnapshot{Lines: lines}
	for _, l := range lines {
		snap.Total = snap.Total.Add(l.Subtotal)
	}
	return snap
}

func sampleSnapshot() domain.CartSnapshot {
	return snapshotWith(
		domain.SnapshotLine{ProductID: 1, Name: "Lamp", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200)},
		domain.SnapshotLine{ProductID: 2, Name: "Desk", Quantity: 1, UnitPrice: decimal.NewFromInt(250), Subtotal: decimal.NewFromInt(250)},
	)
}

func validDetails() domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:    "Jo Doe",
		Phone:   "555-0101",
		Email:   "jo@example.com",
		Address: "Main St 1",
	}
}

func TestEmptyCartGuard(t *testing.T) {
	_, err := New(domain.CartSnapshot{}, &mockSubmitter{}, nil)
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestValidationBlocksNetworkRequest(t *testing.T) {
	sub := &mockSubmitter{}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	cases := []struct {
		name    string
		mutate  func(*domain.CustomerDetails)
		field   string
	}{
		{"missing name", func(d *domain.CustomerDetails) { d.Name = "" }, "name"},
		{"missing phone", func(d *domain.CustomerDetails) { d.Phone = "  " }, "phone"},
		{"missing email", func(d *domain.CustomerDetails) { d.Email = "" }, "email"},
		{"malformed email", func(d *domain.CustomerDetails) { d.Email = "not-an-address" }, "email"},
		{"missing address", func(d *domain.CustomerDetails) { d.Address = "" }, "address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details := validDetails()
			tc.mutate(&details)

			_, err := c.Submit(context.Background(), details)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	assert.Equal(t, 0, sub.callCount(), "validation failures must not reach the network")
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitSuccess(t *testing.T) {
	sub := &mockSubmitter{result: api.OrderResult{OrderID: "1042"}}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	conf, err := c.Submit(context.Background(), validDetails())
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, c.State())
	assert.True(t, c.State().IsTerminal())
	assert.Equal(t, "1042", conf.OrderID)
	assert.Equal(t, "Jo Doe", conf.Customer.Name)
	assert.Len(t, conf.Lines, 2)
	assert.True(t, decimal.NewFromInt(450).Equal(conf.Total))
	assert.False(t, conf.PlacedAt.IsZero())

	got, ok := c.Confirmation()
	require.True(t, ok)
	assert.Equal(t, conf.OrderID, got.OrderID)
}

func TestSubmitFallsBackToLocalOrderID(t *testing.T) {
	sub := &mockSubmitter{} // server returns no order_id
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	conf, err := c.Submit(context.Background(), validDetails())
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderID)
}

func TestSubmitFailureKeepsFormPopulated(t *testing.T) {
	sub := &mockSubmitter{err: &api.Error{Status: 422, Detail: "Insufficient stock"}}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	details := validDetails()
	_, err = c.Submit(context.Background(), details)
	require.Error(t, err)

	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, "Insufficient stock", c.Failure())
	assert.Equal(t, details, c.Details(), "a failed submission leaves the form populated")
	_, ok := c.Confirmation()
	assert.False(t, ok)
}

func TestSubmitFailureWithoutServerDetail(t *testing.T) {
	sub := &mockSubmitter{err: errors.New("connection refused")}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), validDetails())
	require.Error(t, err)
	assert.Equal(t, "connection refused", c.Failure())
}

func TestResubmissionAfterFailure(t *testing.T) {
	sub := &mockSubmitter{err: errors.New("connection refused")}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), validDetails())
	require.Error(t, err)
	require.Equal(t, StateFailed, c.State())

	sub.m.Lock()
	sub.err = nil
	sub.result = api.OrderResult{OrderID: "7"}
	sub.m.Unlock()

	conf, err := c.Submit(context.Background(), validDetails())
	require.NoError(t, err)
	assert.Equal(t, "7", conf.OrderID)
	assert.Equal(t, StateSucceeded, c.State())
	assert.Empty(t, c.Failure(), "the error banner clears on resubmit")
	assert.Equal(t, 2, sub.callCount())
}

func TestDoubleSubmitDuringFlight(t *testing.T) {
	sub := &mockSubmitter{
		result:  api.OrderResult{OrderID: "1042"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	started := sub.started
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), validDetails())
		done <- err
	}()

	<-started
	assert.Equal(t, StateSubmitting, c.State())

	// Second click while the first request is in flight.
	_, err = c.Submit(context.Background(), validDetails())
	require.ErrorIs(t, err, domain.ErrSubmitInFlight)

	close(sub.release)
	require.NoError(t, <-done)

	assert.Equal(t, StateSucceeded, c.State())
	assert.Equal(t, 1, sub.callCount(), "exactly one order-creation request per accepted submit")
}

func TestSubmitAfterSuccessRejected(t *testing.T) {
	sub := &mockSubmitter{result: api.OrderResult{OrderID: "1042"}}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), validDetails())
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), validDetails())
	require.ErrorIs(t, err, domain.ErrOrderPlaced)
	assert.Equal(t, 1, sub.callCount())
}

func TestOrderBuiltFromSnapshot(t *testing.T) {
	var captured domain.Order
	sub := &captureSubmitter{inner: &mockSubmitter{result: api.OrderResult{OrderID: "1"}}, captured: &captured}
	c, err := New(sampleSnapshot(), sub, nil)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), validDetails())
	require.NoError(t, err)

	require.Len(t, captured.Items, 2)
	assert.Equal(t, int64(1), captured.Items[0].ProductID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(450).Equal(captured.Total))
}

type captureSubmitter struct {
	inner    *mockSubmitter
	captured *domain.Order
}

func (s *captureSubmitter) CreateOrder(ctx context.Context, order domain.Order) (api.OrderResult, error) {
	*s.captured = order
	return s.inner.CreateOrder(ctx, order)
}
