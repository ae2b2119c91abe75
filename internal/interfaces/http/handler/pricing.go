package handler

import (
	pricingapp "github.com/erp/pricelist/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingHandler handles rule row edits, price lookups and vendor bill intake
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricingapp.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// UpdateRule godoc
// @Summary     Update a rule row
// @Description Rewrite one rule row by ID. Template rows propagate to variants when auto sync is on
// @Tags        rules
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Rule ID" format(uuid)
// @Param       request body pricingapp.RuleRowRequest true "Rule row"
// @Success     200 {object} dto.Response{data=pricingapp.RuleUpdateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /rules/{id} [patch]
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	ruleID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.RuleRowRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.pricingService.UpdateRule(c.Request.Context(), tenantID, ruleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Resolve godoc
// @Summary     Resolve a unit price
// @Description Resolve the unit price of a product for a partner and quantity
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.ResolvePriceRequest true "Resolution request"
// @Success     200 {object} dto.Response{data=pricingapp.PriceResolutionResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /pricing/resolve [post]
func (h *PricingHandler) Resolve(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.ResolvePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.pricingService.ResolvePrice(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PriceOrderLine godoc
// @Summary     Price an order line
// @Description Price a sales order line, keeping a manual price when the line is locked
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.PriceOrderLineRequest true "Order line"
// @Success     200 {object} dto.Response{data=pricingapp.OrderLinePriceResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /pricing/order-line [post]
func (h *PricingHandler) PriceOrderLine(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.PriceOrderLineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.pricingService.PriceOrderLine(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PriceDetails godoc
// @Summary     Get price details
// @Description Show every row of the product's strategy tables with its computed amount
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.PriceDetailsRequest true "Product and partner"
// @Success     200 {object} dto.Response{data=pricingapp.PriceDetailsResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /pricing/price-details [post]
func (h *PricingHandler) PriceDetails(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.PriceDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.pricingService.GetPriceDetails(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// VendorBillProcessed is returned once every subscriber has handled the posted
// bill. The bus dispatches synchronously, so the new costs are already stored.
type VendorBillProcessed struct {
	BillID uuid.UUID `json:"bill_id"`
	Lines  int       `json:"lines"`
}

// PostVendorBill godoc
// @Summary     Post a vendor bill
// @Description Record the bill's unit costs as last acquisition costs. Handled before the response is sent; redelivered bills are skipped
// @Tags        vendor-bills
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.PostVendorBillRequest true "Posted vendor bill"
// @Success     200 {object} dto.Response{data=VendorBillProcessed}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /vendor-bills/posted [post]
func (h *PricingHandler) PostVendorBill(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.PostVendorBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.pricingService.PostVendorBill(c.Request.Context(), tenantID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, VendorBillProcessed{BillID: req.BillID, Lines: len(req.Lines)})
}
