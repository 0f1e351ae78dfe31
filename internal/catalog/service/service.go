// Package service provides business logic for the element catalog.
package service

import (
	"context"
	"strings"

	"assembly_portal_backend/internal/catalog/repository"
	"assembly_portal_backend/internal/catalog/transport"
	"assembly_portal_backend/platform/logger"
)

// Service provides business logic for the catalog.
type Service struct {
	repo  repository.Repository
	cache *ElementCache
	log   *logger.Logger
}

// New creates a new catalog service. The cache is optional; pass nil to
// read straight from the repository.
func New(repo repository.Repository, cache *ElementCache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// GetElementByID retrieves an element, preferring the cache.
func (s *Service) GetElementByID(ctx context.Context, id int64) (transport.ElementResponse, error) {
	if s.cache != nil {
		if element, ok := s.cache.Get(ctx, id); ok {
			return toElementResponse(element), nil
		}
	}

	element, err := s.repo.GetElementByID(ctx, id)
	if err != nil {
		return transport.ElementResponse{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, element)
	}
	return toElementResponse(element), nil
}

// ListElements retrieves elements with optional filters.
func (s *Service) ListElements(ctx context.Context, req transport.ListElementsRequest) (transport.ElementListResponse, error) {
	items, err := s.repo.ListElements(ctx, repository.ListElementsParams{
		CategoryID: req.CategoryID,
		ColorID:    req.ColorID,
	})
	if err != nil {
		return transport.ElementListResponse{}, err
	}
	return toElementListResponse(items), nil
}

// CreateElement creates a new element.
func (s *Service) CreateElement(ctx context.Context, req transport.CreateElementRequest) (transport.ElementResponse, error) {
	element, err := s.repo.CreateElement(ctx, repository.CreateElementParams{
		Name:                    strings.TrimSpace(req.Name),
		ColorID:                 req.ColorID,
		CategoryID:              req.CategoryID,
		Width:                   req.Width,
		Length:                  req.Length,
		Depth:                   req.Depth,
		StockAmount:             req.StockAmount,
		PriceCents:              req.PriceCents,
		InstallationCostCents:   req.InstallationCostCents,
		InstallationTimeMinutes: req.InstallationTime.TotalMinutes(),
	})
	if err != nil {
		return transport.ElementResponse{}, err
	}

	s.log.Info("element created", "id", element.ID, "name", element.Name)
	return toElementResponse(element), nil
}

// UpdateElement updates an existing element and drops its cache entry.
func (s *Service) UpdateElement(ctx context.Context, id int64, req transport.UpdateElementRequest) (transport.ElementResponse, error) {
	name := req.Name
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}

	var installMinutes *int
	if req.InstallationTime != nil {
		minutes := req.InstallationTime.TotalMinutes()
		installMinutes = &minutes
	}

	element, err := s.repo.UpdateElement(ctx, repository.UpdateElementParams{
		ID:                      id,
		Name:                    name,
		ColorID:                 req.ColorID,
		CategoryID:              req.CategoryID,
		Width:                   req.Width,
		Length:                  req.Length,
		Depth:                   req.Depth,
		StockAmount:             req.StockAmount,
		PriceCents:              req.PriceCents,
		InstallationCostCents:   req.InstallationCostCents,
		InstallationTimeMinutes: installMinutes,
	})
	if err != nil {
		return transport.ElementResponse{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.log.Info("element updated", "id", element.ID, "name", element.Name)
	return toElementResponse(element), nil
}

// DeleteElement deletes an element and drops its cache entry.
func (s *Service) DeleteElement(ctx context.Context, id int64) error {
	if err := s.repo.DeleteElement(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	s.log.Info("element deleted", "id", id)
	return nil
}

// ConsumeStock subtracts the given quantities in one transaction and drops
// the touched cache entries.
func (s *Service) ConsumeStock(ctx context.Context, items []repository.StockDecrement) error {
	if err := s.repo.DecrementStockBatch(ctx, items); err != nil {
		return err
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ElementID)
	}
	s.InvalidateElements(ctx, ids...)

	s.log.Info("stock consumed", "elements", len(items))
	return nil
}

// InvalidateElements drops cache entries after stock has changed elsewhere,
// typically when an order consumed stock.
func (s *Service) InvalidateElements(ctx context.Context, ids ...int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ids...)
	}
}

func toElementResponse(e repository.Element) transport.ElementResponse {
	return transport.ElementResponse{
		ID:                    e.ID,
		Name:                  e.Name,
		ColorID:               e.ColorID,
		CategoryID:            e.CategoryID,
		Width:                 e.Width,
		Length:                e.Length,
		Depth:                 e.Depth,
		StockAmount:           e.StockAmount,
		PriceCents:            e.PriceCents,
		InstallationCostCents: e.InstallationCostCents,
		InstallationTime:      transport.FromMinutes(e.InstallationTimeMinutes),
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

func toElementListResponse(items []repository.Element) transport.ElementListResponse {
	responses := make([]transport.ElementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toElementResponse(item))
	}
	return transport.ElementListResponse{Items: responses, Total: len(responses)}
}
