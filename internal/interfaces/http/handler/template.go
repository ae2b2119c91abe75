package handler

import (
	pricingapp "github.com/erp/pricelist/internal/application/pricing"
	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// TemplateHandler handles product template pricing endpoints
type TemplateHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(pricingService *pricingapp.PricingService) *TemplateHandler {
	return &TemplateHandler{
		pricingService: pricingService,
	}
}

// Create godoc
// @Summary     Create a product template
// @Description Create a product template with its pricing inputs
// @Tags        templates
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       request body pricingapp.CreateTemplateRequest true "Template"
// @Success     201 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}

	var req pricingapp.CreateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	template, err := h.pricingService.CreateTemplate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// GetByID godoc
// @Summary     Get template by ID
// @Description Retrieve a template with its rule tables
// @Tags        templates
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id} [get]
func (h *TemplateHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	template, err := h.pricingService.GetTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// UpdatePricing godoc
// @Summary     Update template pricing
// @Description Update pricing inputs, recompute the landing price and rule amounts, and sync variants when auto sync is on
// @Tags        templates
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Param       request body pricingapp.UpdateTemplatePricingRequest true "Pricing inputs"
// @Success     200 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/pricing [put]
func (h *TemplateHandler) UpdatePricing(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.UpdateTemplatePricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	template, err := h.pricingService.UpdateTemplatePricing(c.Request.Context(), tenantID, templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// ReplaceRules godoc
// @Summary     Replace a template rule table
// @Description Replace every row of one rule table
// @Tags        templates
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       request body pricingapp.ReplaceRulesRequest true "Rows"
// @Success     200 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/rules/{table} [put]
func (h *TemplateHandler) ReplaceRules(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.ReplaceRulesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	template, err := h.pricingService.ReplaceTemplateRules(c.Request.Context(), tenantID, templateID, c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// AddRule godoc
// @Summary     Add a template rule row
// @Description Append a row to one rule table
// @Tags        templates
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       request body pricingapp.RuleRowRequest true "Rule row"
// @Success     201 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/rules/{table} [post]
func (h *TemplateHandler) AddRule(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.RuleRowRequest
	if !h.bindJSON(c, &req) {
		return
	}

	template, err := h.pricingService.AddTemplateRule(c.Request.Context(), tenantID, templateID, c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// RemoveRule godoc
// @Summary     Remove a template rule row
// @Description Delete a row from the named rule table. A row of another table is not found
// @Tags        templates
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Param       table path string true "Rule table" Enums(quantity_regular, quantity_list_based, quantity_purchase_list_based, customer_regular, customer_list_based, customer_purchase_list_based)
// @Param       rule_id path string true "Rule ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.TemplateResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/rules/{table}/{rule_id} [delete]
func (h *TemplateHandler) RemoveRule(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
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

	template, err := h.pricingService.RemoveTemplateRule(c.Request.Context(), tenantID, templateID, kind, ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// SyncVariants godoc
// @Summary     Sync variants
// @Description Push the template's pricing to every variant without an override
// @Tags        templates
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Success     200 {object} dto.Response{data=pricingapp.SyncResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/sync [post]
func (h *TemplateHandler) SyncVariants(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.pricingService.SyncAllVariants(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddVariant godoc
// @Summary     Add a variant
// @Description Create a variant priced from its template
// @Tags        templates
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Param       request body pricingapp.CreateVariantRequest true "Variant"
// @Success     201 {object} dto.Response{data=pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/variants [post]
func (h *TemplateHandler) AddVariant(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req pricingapp.CreateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.pricingService.AddVariant(c.Request.Context(), tenantID, templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, variant)
}

// ListVariants godoc
// @Summary     List variants
// @Description List a template's variants with their sync state
// @Tags        templates
// @Produce     json
// @Param       X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param       id path string true "Template ID" format(uuid)
// @Success     200 {object} dto.Response{data=[]pricingapp.VariantResponse}
// @Failure     400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure     500 {object} dto.Response{error=dto.ErrorInfo}
// @Router      /templates/{id}/variants [get]
func (h *TemplateHandler) ListVariants(c *gin.Context) {
	tenantID, ok := h.requireTenantID(c)
	if !ok {
		return
	}
	templateID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	variants, err := h.pricingService.ListVariants(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, variants)
}
