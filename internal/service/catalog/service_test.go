package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/repository/memory"
)

func dome(qty int) ProductInput {
	return ProductInput{
		Name:        "Dome Camera",
		ModelNumber: "DS-2CD1123",
		Brand:       "Hikvision",
		Category:    "camera",
		Price:       2450,
		Quantity:    qty,
		Resolution:  "2MP",
		PoE:         true,
	}
}

func TestAddAndGetProduct(t *testing.T) {
	svc := NewService(memory.New().Products(), time.UTC, nil)
	ctx := context.Background()

	in := dome(10)
	in.Name = "  Dome Camera  "
	product, err := svc.AddProduct(ctx, in)
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.Equal(t, "Dome Camera", product.Name)

	got, err := svc.GetProduct(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	assert.True(t, got.PoE)
}

func TestAddProductValidation(t *testing.T) {
	svc := NewService(memory.New().Products(), time.UTC, nil)

	in := dome(1)
	in.Brand = " "
	_, err := svc.AddProduct(context.Background(), in)
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.AddProduct(context.Background(), dome(-1))
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestTodayProductsUsesLocalMidnight(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	store := memory.New().Products()
	svc := NewService(store, loc, nil)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2026, 10, 18, 23, 0, 0, 0, loc) }
	_, err := svc.AddProduct(ctx, dome(3))
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 10, 19, 0, 30, 0, 0, loc) }
	fresh, err := svc.AddProduct(ctx, dome(4))
	require.NoError(t, err)

	today, err := svc.TodayProducts(ctx)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, fresh.ID, today[0].ID)
}

func TestLowStock(t *testing.T) {
	svc := NewService(memory.New().Products(), time.UTC, nil)
	ctx := context.Background()
	for _, qty := range []int{0, 5, 6, 40} {
		_, err := svc.AddProduct(ctx, dome(qty))
		require.NoError(t, err)
	}

	low, err := svc.LowStock(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestUpdateProduct(t *testing.T) {
	svc := NewService(memory.New().Products(), time.UTC, nil)
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, dome(2))
	require.NoError(t, err)

	in := dome(12)
	in.Price = 2300
	updated, err := svc.UpdateProduct(ctx, product.ID.Hex(), in)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
	assert.Equal(t, 2300.0, updated.Price)
	assert.Equal(t, product.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateProduct(ctx, primitive.NewObjectID().Hex(), in)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc := NewService(memory.New().Products(), time.UTC, nil)
	ctx := context.Background()
	product, err := svc.AddProduct(ctx, dome(1))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID.Hex()))

	err = svc.DeleteProduct(ctx, product.ID.Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.DeleteProduct(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
