package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventHandler is a mock implementation of shared.EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newBillEvent(billID uuid.UUID) *testEvent {
	e := newTestEvent("VendorBillPosted")
	e.ID = billID
	return e
}

func TestIdempotentHandler_Handle_NewEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := new(MockEventHandler)
	event := newBillEvent(uuid.New())
	inner.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), event))
	inner.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Metrics().EventsProcessed.Load())
}

func TestIdempotentHandler_Handle_RedeliveredBill(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	billID := uuid.New()
	first := newBillEvent(billID)
	again := newBillEvent(billID)

	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, first).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), first))
	require.NoError(t, handler.Handle(context.Background(), again))

	inner.AssertExpectations(t)
	stats := handler.Metrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsDuplicate)
}

func TestIdempotentHandler_Handle_FailureReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	event := newBillEvent(uuid.New())
	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, event).Return(errors.New("database down")).Once()
	inner.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	assert.Error(t, handler.Handle(context.Background(), event))
	assert.NoError(t, handler.Handle(context.Background(), event))

	inner.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Metrics().EventsFailed.Load())
	assert.Equal(t, int64(1), handler.Metrics().EventsProcessed.Load())
}

func TestIdempotentHandler_Handle_StoreError(t *testing.T) {
	event := newBillEvent(uuid.New())
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, idempotencyKey(event), mock.Anything).
		Return(false, errors.New("redis unavailable"))

	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, event).Return(errors.New("handler failed"))

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	assert.Error(t, handler.Handle(context.Background(), event))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestIdempotentHandler_Handle_Disabled(t *testing.T) {
	store := new(MockIdempotencyStore)
	inner := new(MockEventHandler)
	event := newBillEvent(uuid.New())
	inner.On("Handle", mock.Anything, event).Return(nil).Times(3)

	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)

	for range 3 {
		require.NoError(t, handler.Handle(context.Background(), event))
	}
	inner.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_KeyIncludesEventType(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	id := uuid.New()
	bill := newBillEvent(id)
	other := newTestEvent("TemplateCreated")
	other.ID = id

	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, mock.Anything).Return(nil).Twice()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), bill))
	require.NoError(t, handler.Handle(context.Background(), other))

	inner.AssertExpectations(t)
}

func TestIdempotentHandler_SharedMetrics(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	metrics := &IdempotencyMetrics{}

	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, mock.Anything).Return(nil)
	inner.On("EventTypes").Return([]string{"VendorBillPosted"})

	h1 := NewIdempotentHandler(inner, store, zap.NewNop(), WithIdempotencyMetrics(metrics))
	h2 := NewIdempotentHandler(inner, store, zap.NewNop(), WithIdempotencyMetrics(metrics))

	require.NoError(t, h1.Handle(context.Background(), newBillEvent(uuid.New())))
	require.NoError(t, h2.Handle(context.Background(), newBillEvent(uuid.New())))

	assert.Equal(t, int64(2), metrics.EventsProcessed.Load())
	assert.Equal(t, []string{"VendorBillPosted"}, h1.EventTypes())
}

func TestIdempotentHandler_ConcurrentRedelivery(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	event := newBillEvent(uuid.New())
	inner := new(MockEventHandler)
	inner.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	const workers = 20
	errs := make(chan error, workers)
	for range workers {
		go func() {
			errs <- handler.Handle(context.Background(), event)
		}()
	}
	for range workers {
		assert.NoError(t, <-errs)
	}

	inner.AssertExpectations(t)
	assert.Equal(t, int64(workers-1), handler.Metrics().EventsDuplicate.Load())
}
