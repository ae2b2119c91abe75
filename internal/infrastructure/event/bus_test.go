package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Template", uuid.New(), uuid.New()),
	}
}

// testHandler records the events it receives
type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("VariantsSynced")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("VariantsSynced"),
		newTestEvent("VariantsSynced"),
		newTestEvent("TemplateCreated"),
	))

	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_Publish_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("VariantsSynced")
	bus.Subscribe(handler, "TemplateCreated")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("VariantsSynced")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TemplateCreated")))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Publish_HandlerErrorsAreJoined(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler("VendorBillPosted")
	failing.err = errors.New("recording failed")
	healthy := newTestHandler("VendorBillPosted")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("VendorBillPosted"))

	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Publish_PanicBecomesError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("VendorBillPosted")
	handler.panicWith = "boom"
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("VendorBillPosted"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("VariantsSynced")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("VariantsSynced"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("VariantsSynced"))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("VariantsSynced")))

	require.NoError(t, bus.Stop(ctx))
	assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("VariantsSynced")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newTestEvent("VariantsSynced")))
}
