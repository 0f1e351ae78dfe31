// Package adapters bridges bounded contexts: each adapter exposes one
// context's data through the port interface another context defines, so the
// contexts never import each other's internals directly.
package adapters

import (
	"context"

	catalogrepo "assembly_portal_backend/internal/catalog/repository"
	catalogsvc "assembly_portal_backend/internal/catalog/service"
	projectsvc "assembly_portal_backend/internal/projects/service"
)

// CatalogElementProvider adapts the catalog repository to the ElementCatalog
// port of the projects context.
type CatalogElementProvider struct {
	repo catalogrepo.Repository
}

// NewCatalogElementProvider creates the adapter.
func NewCatalogElementProvider(repo catalogrepo.Repository) *CatalogElementProvider {
	return &CatalogElementProvider{repo: repo}
}

// ElementsByIDs returns the pricing view of the requested elements, keyed by
// ID. Unknown IDs are absent from the map.
func (p *CatalogElementProvider) ElementsByIDs(ctx context.Context, ids []int64) (map[int64]projectsvc.CatalogElement, error) {
	if len(ids) == 0 {
		return map[int64]projectsvc.CatalogElement{}, nil
	}

	elements, err := p.repo.GetElementsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := make(map[int64]projectsvc.CatalogElement, len(elements))
	for _, element := range elements {
		view[element.ID] = projectsvc.CatalogElement{
			ID:                      element.ID,
			Name:                    element.Name,
			PriceCents:              element.PriceCents,
			InstallationCostCents:   element.InstallationCostCents,
			InstallationTimeMinutes: element.InstallationTimeMinutes,
			StockAmount:             element.StockAmount,
		}
	}
	return view, nil
}

// Compile-time check that the adapter satisfies the port.
var _ projectsvc.ElementCatalog = (*CatalogElementProvider)(nil)

// CatalogStockConsumer adapts the catalog service to the StockConsumer port
// of the projects context. Going through the service keeps the element cache
// coherent with stock writes.
type CatalogStockConsumer struct {
	svc *catalogsvc.Service
}

// NewCatalogStockConsumer creates the adapter.
func NewCatalogStockConsumer(svc *catalogsvc.Service) *CatalogStockConsumer {
	return &CatalogStockConsumer{svc: svc}
}

// DecrementStockBatch forwards the decrements to the catalog as one
// transaction.
func (c *CatalogStockConsumer) DecrementStockBatch(ctx context.Context, items []projectsvc.StockDecrement) error {
	decrements := make([]catalogrepo.StockDecrement, 0, len(items))
	for _, item := range items {
		decrements = append(decrements, catalogrepo.StockDecrement{
			ElementID: item.ElementID,
			Quantity:  item.Quantity,
		})
	}
	return c.svc.ConsumeStock(ctx, decrements)
}

// Compile-time check that the adapter satisfies the port.
var _ projectsvc.StockConsumer = (*CatalogStockConsumer)(nil)
