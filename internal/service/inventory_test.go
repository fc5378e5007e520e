package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockmaster/inventory-app/internal/models"
)

func seedProduct(t *testing.T, svc *InventoryService, quantity int) *models.Product {
	t.Helper()
	prod, err := svc.Create(context.Background(), &models.Product{
		Name:        "Bread",
		Description: "Loaf",
		Price:       2.50,
		Quantity:    quantity,
	})
	require.NoError(t, err)
	return prod
}

func TestInventoryService_CreateAndGet_RoundTrip(t *testing.T) {
	svc := newInventoryService(t)

	created := seedProduct(t, svc, 10)
	require.NotZero(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
	assert.Equal(t, "Loaf", got.Description)
	assert.Equal(t, 2.50, got.Price)
	assert.Equal(t, 10, got.Quantity)
}

func TestInventoryService_Create_Validation(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Product{Name: "x", Price: -1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, &models.Product{Name: "x", Quantity: -1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestInventoryService_Sell(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	prod := seedProduct(t, svc, 10)

	tests := []struct {
		name    string
		qty     int
		wantErr error
		want    int
	}{
		{name: "zero quantity", qty: 0, wantErr: ErrValidation},
		{name: "negative quantity", qty: -3, wantErr: ErrValidation},
		{name: "more than stock", qty: 11, wantErr: ErrInsufficientStock},
		{name: "valid sale", qty: 4, want: 6},
		{name: "remaining stock too low", qty: 7, wantErr: ErrInsufficientStock},
		{name: "sell out", qty: 6, want: 0},
		{name: "empty stock", qty: 1, wantErr: ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Sell(ctx, prod.ID, tt.qty)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Quantity)
		})
	}
}

func TestInventoryService_Sell_UnknownProduct(t *testing.T) {
	svc := newInventoryService(t)

	_, err := svc.Sell(context.Background(), 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryService_Update(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	prod := seedProduct(t, svc, 10)

	updated, err := svc.Update(ctx, prod.ID, models.Product{
		Name:        "Rye Bread",
		Description: "Dark loaf",
		Price:       3.25,
		Quantity:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, prod.ID, updated.ID)
	assert.Equal(t, "Rye Bread", updated.Name)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.Update(ctx, 9999, models.Product{Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, prod.ID, models.Product{Name: "x", Price: -2})
	require.ErrorIs(t, err, ErrValidation)
}

func TestInventoryService_Delete(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	prod := seedProduct(t, svc, 1)
	require.NoError(t, svc.Delete(ctx, prod.ID))

	require.ErrorIs(t, svc.Delete(ctx, prod.ID), ErrNotFound)

	_, err := svc.Get(ctx, prod.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryService_List(t *testing.T) {
	svc := newInventoryService(t)

	seedProduct(t, svc, 1)
	seedProduct(t, svc, 2)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
