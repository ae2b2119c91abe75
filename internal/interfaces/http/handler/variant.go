package handler

import (
	pricingapp "github.com/erp/pricelist/internal/application/pricing"
	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// VariantHandler handles product variant pricing endpoints. Every write made
// here marks the variant as custom priced.
type VariantHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(pricingService *pricingapp.PricingService) *VariantHandler {
	return &VariantHandler{
		pricingService: pricingService,
	}
}

// GetByID godoc
// @Summary     Get variant by ID
// @Description Retrieve a variant with its rule tables and sync state
// @Tags        variants
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id} [get]
func (h *VariantHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	variant, err := h.pricingService.GetVariant(c.Request.Context(), tenantID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// UpdatePricing godoc
// @Summary     Update variant pricing
// @Description Edit a variant's pricing inputs directly, marking it overridden
// @Tags        variants
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Param       request body pricingapp.UpdateVariantPricingRequest true "Pricing inputs"
// @Success     200 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id}/pricing [put]
func (h *VariantHandler) UpdatePricing(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.UpdateVariantPricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.pricingService.UpdateVariantPricing(c.Request.Context(), tenantID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// ReplaceRules godoc
// @Summary     Replace a variant rule table
// @Description Replace every row of one rule table, marking the variant overridden
// @Tags        variants
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       request body pricingapp.ReplaceRulesRequest true "Rows"
// @Success     200 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id}/rules/{table} [put]
func (h *VariantHandler) ReplaceRules(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.ReplaceRulesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.pricingService.ReplaceVariantRules(c.Request.Context(), tenantID, variantID, c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// AddRule godoc
// @Summary     Add a variant rule row
// @Description Append a row to one rule table, marking the variant overridden
// @Tags        variants
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       request body pricingapp.RuleRowRequest true "Rule row"
// @Success     201 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id}/rules/{table} [post]
func (h *VariantHandler) AddRule(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.RuleRowRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.pricingService.AddVariantRule(c.Request.Context(), tenantID, variantID, c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, variant)
}

// RemoveRule godoc
// @Summary     Remove a variant rule row
// @Description Delete a row from the named rule table. A row of another table is not found
// @Tags        variants
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       rule_id path string true "Rule ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id}/rules/{table}/{rule_id} [delete]
func (h *VariantHandler) RemoveRule(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	kind, err := pricing.ParseTableKind(c.Param("table"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	ruleID, ok := h.pathUUID(c, "rule_id")
	if !ok {
		return
	}

	variant, err := h.pricingService.RemoveVariantRule(c.Request.Context(), tenantID, variantID, kind, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}

// Reset godoc
// @Summary     Reset variant to template
// @Description Clear the override and copy the template's current pricing
// @Tags        variants
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Variant ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /variants/{id}/reset [post]
func (h *VariantHandler) Reset(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	variantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	variant, err := h.pricingService.ResetVariantToTemplate(c.Request.Context(), tenantID, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variant)
}
