package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"assembly_portal_backend/internal/catalog/repository"
	"assembly_portal_backend/platform/apperr"
	"assembly_portal_backend/platform/logger"
)

type fakeRepo struct {
	repository.Repository

	elements map[int64]repository.Element
	getCalls int
}

func (f *fakeRepo) GetElementByID(_ context.Context, id int64) (repository.Element, error) {
	f.getCalls++
	element, ok := f.elements[id]
	if !ok {
		return repository.Element{}, apperr.NotFound("element not found")
	}
	return element, nil
}

func (f *fakeRepo) DecrementStockBatch(_ context.Context, items []repository.StockDecrement) error {
	for _, item := range items {
		element, ok := f.elements[item.ElementID]
		if !ok {
			return apperr.NotFound("element not found")
		}
		if element.StockAmount < item.Quantity {
			return apperr.Conflict("insufficient stock")
		}
	}
	for _, item := range items {
		element := f.elements[item.ElementID]
		element.StockAmount -= item.Quantity
		f.elements[item.ElementID] = element
	}
	return nil
}

func newTestCache(t *testing.T, ttl time.Duration) (*ElementCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewElementCache(client, ttl, logger.New("test")), mr
}

func TestGetElementByIDReadThrough(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{
		7: {ID: 7, Name: "shelf", PriceCents: 1000, InstallationTimeMinutes: 90, StockAmount: 4},
	}}
	svc := New(repo, cache, logger.New("test"))

	first, err := svc.GetElementByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.InstallationTime.Hours != 1 || first.InstallationTime.Minutes != 30 {
		t.Fatalf("installation time = %+v, want 1h30m", first.InstallationTime)
	}

	second, err := svc.GetElementByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second != first {
		t.Fatalf("cached response %+v differs from %+v", second, first)
	}
	if repo.getCalls != 1 {
		t.Fatalf("repository hit %d times, want 1", repo.getCalls)
	}
}

func TestGetElementByIDExpiredEntryRefetches(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{
		7: {ID: 7, Name: "shelf", PriceCents: 1000},
	}}
	svc := New(repo, cache, logger.New("test"))

	if _, err := svc.GetElementByID(context.Background(), 7); err != nil {
		t.Fatalf("warm get: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := svc.GetElementByID(context.Background(), 7); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if repo.getCalls != 2 {
		t.Fatalf("repository hit %d times, want 2 after expiry", repo.getCalls)
	}
}

func TestInvalidateElementsDropsEntries(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{
		1: {ID: 1, Name: "leg", StockAmount: 10},
	}}
	svc := New(repo, cache, logger.New("test"))

	if _, err := svc.GetElementByID(context.Background(), 1); err != nil {
		t.Fatalf("warm get: %v", err)
	}
	svc.InvalidateElements(context.Background(), 1)

	repo.elements[1] = repository.Element{ID: 1, Name: "leg", StockAmount: 8}
	refreshed, err := svc.GetElementByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if refreshed.StockAmount != 8 {
		t.Fatalf("stock = %d, want refreshed value 8", refreshed.StockAmount)
	}
	if repo.getCalls != 2 {
		t.Fatalf("repository hit %d times, want 2 after invalidate", repo.getCalls)
	}
}

func TestConsumeStockInvalidatesCache(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{
		1: {ID: 1, Name: "leg", StockAmount: 10},
	}}
	svc := New(repo, cache, logger.New("test"))

	if _, err := svc.GetElementByID(context.Background(), 1); err != nil {
		t.Fatalf("warm get: %v", err)
	}

	if err := svc.ConsumeStock(context.Background(), []repository.StockDecrement{{ElementID: 1, Quantity: 3}}); err != nil {
		t.Fatalf("consume stock: %v", err)
	}

	got, err := svc.GetElementByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get after consume: %v", err)
	}
	if got.StockAmount != 7 {
		t.Fatalf("stock = %d, want 7 after consume", got.StockAmount)
	}
}

func TestConsumeStockShortfallLeavesStock(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{
		1: {ID: 1, Name: "leg", StockAmount: 2},
	}}
	svc := New(repo, cache, logger.New("test"))

	err := svc.ConsumeStock(context.Background(), []repository.StockDecrement{{ElementID: 1, Quantity: 3}})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if repo.elements[1].StockAmount != 2 {
		t.Fatalf("stock = %d, want untouched 2", repo.elements[1].StockAmount)
	}
}

func TestNotFoundIsNotCached(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &fakeRepo{elements: map[int64]repository.Element{}}
	svc := New(repo, cache, logger.New("test"))

	if _, err := svc.GetElementByID(context.Background(), 99); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	repo.elements[99] = repository.Element{ID: 99, Name: "late arrival"}
	got, err := svc.GetElementByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if got.Name != "late arrival" {
		t.Fatalf("name = %q, want %q", got.Name, "late arrival")
	}
}
