package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("TemplatePricingChanged", "VariantsSynced")

	registry.Register(handler, "TemplatePricingChanged", "VariantsSynced")

	assert.Equal(t, []any{handler}, toAny(registry.GetHandlers("TemplatePricingChanged")))
	assert.Len(t, registry.GetHandlers("VariantsSynced"), 1)
	assert.Empty(t, registry.GetHandlers("VendorBillPosted"))
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newTestHandler("VariantsSynced")
	wildcard := newTestHandler()

	registry.Register(typed, "VariantsSynced")
	registry.Register(wildcard)

	handlers := registry.GetHandlers("VariantsSynced")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])

	assert.Len(t, registry.GetHandlers("AnythingElse"), 1)
}

func TestHandlerRegistry_Register_Twice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("VariantsSynced")

	registry.Register(handler, "VariantsSynced")
	registry.Register(handler, "VariantsSynced")

	assert.Len(t, registry.GetHandlers("VariantsSynced"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	h1 := newTestHandler("VariantsSynced")
	h2 := newTestHandler("VariantsSynced")
	registry.Register(h1, "VariantsSynced", "VariantCreated")
	registry.Register(h2, "VariantsSynced")
	registry.Register(h1)

	registry.Unregister(h1)

	handlers := registry.GetHandlers("VariantsSynced")
	assert.Len(t, handlers, 1)
	assert.Same(t, h2, handlers[0])
	assert.Empty(t, registry.GetHandlers("VariantCreated"))
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	h1 := newTestHandler("A", "B")
	h2 := newTestHandler()
	registry.Register(h1, "A", "B")
	registry.Register(h2)

	assert.Len(t, registry.GetAllHandlers(), 2)
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
