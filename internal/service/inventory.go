package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stockmaster/inventory-app/internal/events"
	"github.com/stockmaster/inventory-app/internal/logging"
	"github.com/stockmaster/inventory-app/internal/models"
	"github.com/stockmaster/inventory-app/internal/repo"
	"github.com/stockmaster/inventory-app/internal/search"
)

// InventoryService fronts the product store. Event publishing and index sync
// are best-effort: a broker or cluster failure is logged and never turns a
// successful mutation into a failed request.
type InventoryService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Index    *search.Index
}

func (s *InventoryService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *InventoryService) Create(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if prod.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if prod.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %w", ErrValidation)
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, err
	}

	s.syncIndex(ctx, created)
	s.publish(ctx, created.ID, map[string]any{
		"type":       "product_created",
		"product_id": created.ID,
		"name":       created.Name,
	})

	return created, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, fields models.Product) (*models.Product, error) {
	if fields.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if fields.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %w", ErrValidation)
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.syncIndex(ctx, prod)
	s.publish(ctx, prod.ID, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
	})

	return prod, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Error("index_sync_failed", "product_id", id, "error", err)
	}
	s.publish(ctx, id, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return nil
}

// Sell atomically decrements the product's quantity by qty and returns the
// updated record. The quantity check happens inside the storage layer, so a
// concurrent sell of the same product can never oversell it.
func (s *InventoryService) Sell(ctx context.Context, id uint, qty int) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "inventory.sell", "product_id", id, "quantity", qty)

	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer: %w", ErrValidation)
	}

	prod, err := s.Repo.SellProduct(ctx, id, qty)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("sell_failed", "status", 404, "reason", "product not found")
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			l.Warn("sell_failed", "status", 400, "reason", "insufficient stock")
			return nil, fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
		default:
			l.Error("sell_failed", "status", 500, "error", err)
			return nil, err
		}
	}

	s.syncIndex(ctx, prod)
	s.publish(ctx, prod.ID, map[string]any{
		"type":       "product_sold",
		"product_id": prod.ID,
		"quantity":   qty,
		"remaining":  prod.Quantity,
	})

	return prod, nil
}

func (s *InventoryService) Search(ctx context.Context, query string, size int) (int64, []models.Product, error) {
	return s.Index.Search(ctx, query, size)
}

func (s *InventoryService) syncIndex(ctx context.Context, prod *models.Product) {
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("index_sync_failed", "product_id", prod.ID, "error", err)
	}
}

func (s *InventoryService) publish(ctx context.Context, productID uint, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, fmt.Sprint(productID), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicProductEvents, "error", err)
	}
}
