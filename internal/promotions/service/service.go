// Package service provides business logic for promotional discounts.
package service

import (
	"context"
	"strings"
	"time"

	"assembly_portal_backend/internal/promotions/repository"
	"assembly_portal_backend/internal/promotions/transport"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/logger"
)

// Service provides business logic for promotions.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new promotions service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ActivePercents returns the percentages of currently active promotions in
// application order. This is the port the projects context consumes.
func (s *Service) ActivePercents(ctx context.Context) ([]float64, error) {
	active, err := s.repo.ListActivePromotions(ctx)
	if err != nil {
		return nil, err
	}
	percents := make([]float64, 0, len(active))
	for _, promotion := range active {
		percents = append(percents, promotion.Percent)
	}
	return percents, nil
}

// ListPromotions lists every promotion.
func (s *Service) ListPromotions(ctx context.Context) (transport.PromotionListResponse, error) {
	items, err := s.repo.ListPromotions(ctx)
	if err != nil {
		return transport.PromotionListResponse{}, err
	}
	return toPromotionListResponse(items), nil
}

// ListActivePromotions lists promotions active right now.
func (s *Service) ListActivePromotions(ctx context.Context) (transport.PromotionListResponse, error) {
	items, err := s.repo.ListActivePromotions(ctx)
	if err != nil {
		return transport.PromotionListResponse{}, err
	}
	return toPromotionListResponse(items), nil
}

// CreatePromotion creates a promotion after checking the date window.
func (s *Service) CreatePromotion(ctx context.Context, req transport.CreatePromotionRequest) (transport.PromotionResponse, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return transport.PromotionResponse{}, apperr.Validation("startsAt must be RFC3339")
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return transport.PromotionResponse{}, apperr.Validation("endsAt must be RFC3339")
	}
	if !endsAt.After(startsAt) {
		return transport.PromotionResponse{}, apperr.Validation("endsAt must be after startsAt")
	}

	promotion, err := s.repo.CreatePromotion(ctx, repository.CreatePromotionParams{
		Name:     strings.TrimSpace(req.Name),
		Percent:  req.Percent,
		StartsAt: startsAt.UTC().Format(time.RFC3339),
		EndsAt:   endsAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return transport.PromotionResponse{}, err
	}

	s.log.Info("promotion created", "id", promotion.ID, "percent", promotion.Percent)
	return toPromotionResponse(promotion), nil
}

// DeletePromotion deletes a promotion.
func (s *Service) DeletePromotion(ctx context.Context, id int64) error {
	if err := s.repo.DeletePromotion(ctx, id); err != nil {
		return err
	}
	s.log.Info("promotion deleted", "id", id)
	return nil
}

func toPromotionResponse(p repository.Promotion) transport.PromotionResponse {
	return transport.PromotionResponse{
		ID:        p.ID,
		Name:      p.Name,
		Percent:   p.Percent,
		StartsAt:  p.StartsAt,
		EndsAt:    p.EndsAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPromotionListResponse(items []repository.Promotion) transport.PromotionListResponse {
	responses := make([]transport.PromotionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toPromotionResponse(item))
	}
	return transport.PromotionListResponse{Items: responses, Total: len(responses)}
}
