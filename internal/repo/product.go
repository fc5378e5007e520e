package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stockmaster/inventory-app/internal/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// UpdateProduct replaces every field of the product with the given id and
// returns the stored record.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, fields models.Product) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	prod.Name = fields.Name
	prod.Description = fields.Description
	prod.Price = fields.Price
	prod.Quantity = fields.Quantity

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}

	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SellProduct decrements the stored quantity by qty and returns the updated
// record. The availability check and the decrement are one conditional UPDATE
// (quantity >= qty in the WHERE clause), so two concurrent sells of the same
// product can never jointly drive the quantity negative: the row count tells
// apart a successful decrement from a no-op.
func (r *GormRepo) SellProduct(ctx context.Context, id uint, qty int) (*models.Product, error) {
	var prod models.Product

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", id, qty).
			Update("quantity", gorm.Expr("quantity - ?", qty))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Nothing matched: either the product is missing or the
			// stock was too low. Probe once to tell which.
			if err := tx.First(&prod, id).Error; err != nil {
				return err
			}
			return ErrInsufficientStock
		}

		return tx.First(&prod, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &prod, nil
}
