package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AcquisitionCostRecorder records a new unit cost for a product
type AcquisitionCostRecorder interface {
	RecordAcquisitionCost(ctx context.Context, tenantID uuid.UUID, req RecordAcquisitionCostRequest) (*AcquisitionCostResponse, error)
}

// VendorBillPostedHandler handles VendorBillPostedEvent and feeds each line's
// unit cost into the product's template
type VendorBillPostedHandler struct {
	recorder AcquisitionCostRecorder
	logger   *zap.Logger
}

// NewVendorBillPostedHandler creates a new handler for vendor bill posted events
func NewVendorBillPostedHandler(recorder AcquisitionCostRecorder, logger *zap.Logger) *VendorBillPostedHandler {
	return &VendorBillPostedHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *VendorBillPostedHandler) EventTypes() []string {
	return []string{pricing.EventTypeVendorBillPosted}
}

// Handle records the acquisition cost of every costed line. Lines without a
// product or with a non-positive quantity are skipped. A failing line does not
// stop the others.
func (h *VendorBillPostedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	billEvent, ok := event.(*pricing.VendorBillPostedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", pricing.EventTypeVendorBillPosted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			pricing.EventTypeVendorBillPosted, event.EventType())
	}

	h.logger.Info("processing vendor bill posted event for acquisition costs",
		zap.String("bill_id", billEvent.BillID.String()),
		zap.String("bill_number", billEvent.BillNumber),
		zap.Int("lines", len(billEvent.Lines)),
	)

	var lastErr error
	for _, line := range billEvent.Lines {
		unitCost, ok := line.UnitCost()
		if !ok {
			h.logger.Debug("skipping vendor bill line without cost",
				zap.String("bill_id", billEvent.BillID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.String("quantity", line.Quantity.String()),
			)
			continue
		}

		_, err := h.recorder.RecordAcquisitionCost(ctx, billEvent.TenantID(), RecordAcquisitionCostRequest{
			ProductID: line.ProductID,
			UnitCost:  unitCost,
			Source:    "vendor_bill:" + billEvent.BillNumber,
		})
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				h.logger.Warn("vendor bill line references unknown product",
					zap.String("bill_id", billEvent.BillID.String()),
					zap.String("product_id", line.ProductID.String()),
				)
				continue
			}
			h.logger.Error("failed to record acquisition cost",
				zap.String("bill_id", billEvent.BillID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
	}

	if lastErr != nil {
		return fmt.Errorf("some bill lines failed to process: %w", lastErr)
	}
	return nil
}

// PostVendorBill turns a posted bill notification into a VendorBillPostedEvent
// and publishes it
func (s *PricingService) PostVendorBill(ctx context.Context, tenantID uuid.UUID, req PostVendorBillRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}
	if s.publisher == nil {
		return shared.NewDomainError("INVALID_STATE", "No event publisher configured")
	}

	lines := make([]pricing.VendorBillLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = pricing.VendorBillLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		}
	}
	event := pricing.NewVendorBillPostedEvent(tenantID, req.BillID, req.BillNumber, lines)
	return s.publisher.Publish(ctx, event)
}
