package handler

import (
	pricingapp "github.com/erp/pricelist/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// PartnerHandler handles customer type and partner pricing endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *pricingapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *pricingapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// CreateCustomerType godoc
// @Summary     Create a customer type
// @Description Create a customer type that fixed-mode partners can be priced by
// @Tags        customer-types
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.CreateCustomerTypeRequest true "Customer type"
// @Success     201 {object} dto.Response{data=pricingapp.CustomerTypeResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /customer-types [post]
func (h *PartnerHandler) CreateCustomerType(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.CreateCustomerTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ct, err := h.partnerService.CreateCustomerType(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ct)
}

// ListCustomerTypes godoc
// @Summary     List customer types
// @Description List the tenant's customer types
// @Tags        customer-types
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Success     200 {object} dto.Response{data=[]pricingapp.CustomerTypeResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /customer-types [get]
func (h *PartnerHandler) ListCustomerTypes(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	types, err := h.partnerService.ListCustomerTypes(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, types)
}

// CreatePartner godoc
// @Summary     Create a partner
// @Description Create a partner with its pricing mode
// @Tags        partners
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.CreatePartnerRequest true "Partner"
// @Success     201 {object} dto.Response{data=pricingapp.PartnerResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /partners [post]
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.CreatePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, partner)
}

// GetPartner godoc
// @Summary     Get partner by ID
// @Description Retrieve a partner and its pricing mode
// @Tags        partners
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Partner ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.PartnerResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /partners/{id} [get]
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	partnerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	partner, err := h.partnerService.GetPartner(c.Request.Context(), tenantID, partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, partner)
}

// SetPartnerPricing godoc
// @Summary     Set partner pricing
// @Description Switch a partner between regular and fixed customer-type pricing
// @Tags        partners
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Partner ID" format(uuid)
// @Param       request body pricingapp.SetPartnerPricingRequest true "Pricing mode"
// @Success     200 {object} dto.Response{data=pricingapp.PartnerResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /partners/{id}/pricing [put]
func (h *PartnerHandler) SetPartnerPricing(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	partnerID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.SetPartnerPricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	partner, err := h.partnerService.SetPartnerPricing(c.Request.Context(), tenantID, partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, partner)
}
