package adapters

import (
	"context"

	projectsvc "assembly_portal_backend/internal/projects/service"
	promosvc "assembly_portal_backend/internal/promotions/service"
)

// PromotionDiscountProvider adapts the promotions service to the
// DiscountProvider port of the projects context.
type PromotionDiscountProvider struct {
	svc *promosvc.Service
}

// NewPromotionDiscountProvider creates the adapter.
func NewPromotionDiscountProvider(svc *promosvc.Service) *PromotionDiscountProvider {
	return &PromotionDiscountProvider{svc: svc}
}

// ActivePercents returns the active discount percentages in application
// order.
func (p *PromotionDiscountProvider) ActivePercents(ctx context.Context) ([]float64, error) {
	return p.svc.ActivePercents(ctx)
}

// Compile-time check that the adapter satisfies the port.
var _ projectsvc.DiscountProvider = (*PromotionDiscountProvider)(nil)
