package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/memory"
)

func newTestService() *Service {
	store := memory.New()
	return NewService(store.Suppliers(), store.Sequences(), nil)
}

func TestCreateGeneratesSupplierIDs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: "Vision Distributors", Phone: "9840012345", GSTNumber: "33abcde1234f1z5"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{Name: "SecureNet", Phone: "9840054321"})
	require.NoError(t, err)

	assert.Equal(t, "SUP-00001", first.SupplierID)
	assert.Equal(t, "SUP-00002", second.SupplierID)
	assert.Equal(t, models.SupplierActive, first.Status)
	assert.Equal(t, "33ABCDE1234F1Z5", first.GSTNumber)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), Input{Name: "No Phone"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Create(context.Background(), Input{Name: "X", Phone: "1", Status: "dormant"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, Input{Name: "A", Phone: "1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Input{Name: "B", Phone: "2", Status: models.SupplierInactive})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inactive, err := svc.List(ctx, models.SupplierInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "B", inactive[0].Name)
}

func TestUpdateKeepsSupplierID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, Input{Name: "A", Phone: "1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.Hex(), Input{
		Name:  "A Traders",
		Phone: "2",
		Bank:  models.BankDetails{BankName: "SBI", IFSC: "SBIN0000001"},
	})
	require.NoError(t, err)
	assert.Equal(t, created.SupplierID, updated.SupplierID)
	assert.Equal(t, "SBI", updated.Bank.BankName)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "A Traders", got.Name)
}

func TestDeleteMissingSupplier(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, Input{Name: "A", Phone: "1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	err = svc.Delete(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, ErrSupplierNotFound)

	_, err = svc.Get(ctx, created.ID.Hex())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
