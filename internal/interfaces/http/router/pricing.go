package router

import (
	"github.com/erp/pricelist/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of the pricing API
type Handlers struct {
	Partner  *handler.PartnerHandler
	Template *handler.TemplateHandler
	Variant  *handler.VariantHandler
	Pricing  *handler.PricingHandler
	System   *handler.SystemHandler
}

// PricingGroups builds the route groups of the pricing API
func PricingGroups(h Handlers) []RouteRegistrar {
	customerTypes := NewDomainGroup("customer-types", "/customer-types").
		POST("", h.Partner.CreateCustomerType).
		GET("", h.Partner.ListCustomerTypes)

	partners := NewDomainGroup("partners", "/partners").
		POST("", h.Partner.CreatePartner).
		GET("/:id", h.Partner.GetPartner).
		PUT("/:id/pricing", h.Partner.SetPartnerPricing)

	templates := NewDomainGroup("templates", "/templates").
		POST("", h.Template.Create).
		GET("/:id", h.Template.GetByID).
		PUT("/:id/pricing", h.Template.UpdatePricing).
		PUT("/:id/rules/:table", h.Template.ReplaceRules).
		POST("/:id/rules/:table", h.Template.AddRule).
		DELETE("/:id/rules/:table/:rule_id", h.Template.RemoveRule).
		POST("/:id/sync", h.Template.SyncVariants).
		POST("/:id/variants", h.Template.AddVariant).
		GET("/:id/variants", h.Template.ListVariants)

	variants := NewDomainGroup("variants", "/variants").
		GET("/:id", h.Variant.GetByID).
		PUT("/:id/pricing", h.Variant.UpdatePricing).
		PUT("/:id/rules/:table", h.Variant.ReplaceRules).
		POST("/:id/rules/:table", h.Variant.AddRule).
		DELETE("/:id/rules/:table/:rule_id", h.Variant.RemoveRule).
		POST("/:id/reset", h.Variant.Reset)

	rules := NewDomainGroup("rules", "/rules").
		PATCH("/:id", h.Pricing.UpdateRule)

	resolution := NewDomainGroup("pricing", "/pricing").
		POST("/resolve", h.Pricing.Resolve).
		POST("/order-line", h.Pricing.PriceOrderLine).
		POST("/price-details", h.Pricing.PriceDetails)

	vendorBills := NewDomainGroup("vendor-bills", "/vendor-bills").
		POST("/posted", h.Pricing.PostVendorBill)

	groups := []RouteRegistrar{customerTypes, partners, templates, variants, rules, resolution, vendorBills}
	if h.System != nil {
		groups = append(groups, NewDomainGroup("system", "/system").
			GET("/info", h.System.GetSystemInfo).
			GET("/ping", h.System.Ping))
	}
	return groups
}
