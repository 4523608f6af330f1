package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microshop/internal/model"
	"microshop/internal/storage/memory"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestProductServiceCreate(t *testing.T) {
	svc := NewProductService(memory.NewProductStore())

	saved, err := svc.Create(context.Background(), model.Product{
		Name: "Widget", Description: "A widget", PriceCents: 1999, Stock: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, int64(1999), saved.PriceCents)

	got, err := svc.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestProductServiceCreateValidation(t *testing.T) {
	svc := NewProductService(memory.NewProductStore())

	_, err := svc.Create(context.Background(), model.Product{PriceCents: 100})
	assert.ErrorIs(t, err, ErrProductInvalid)

	_, err = svc.Create(context.Background(), model.Product{Name: "Widget", PriceCents: -1})
	assert.ErrorIs(t, err, ErrProductInvalid)

	// Free products are allowed.
	_, err = svc.Create(context.Background(), model.Product{Name: "Sample", PriceCents: 0})
	assert.NoError(t, err)
}

func TestProductServiceReplace(t *testing.T) {
	svc := NewProductService(memory.NewProductStore())

	saved, err := svc.Create(context.Background(), model.Product{
		Name: "Widget", Description: "A widget", PriceCents: 1999, Stock: 5,
	})
	require.NoError(t, err)

	updated, err := svc.Replace(context.Background(), saved.ID, model.Product{
		Name: "Widget v2", PriceCents: 2499,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.Equal(t, int64(2499), updated.PriceCents)
	assert.Empty(t, updated.Description)
	assert.Zero(t, updated.Stock)

	_, err = svc.Replace(context.Background(), "missing", model.Product{Name: "X", PriceCents: 1})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductServicePatch(t *testing.T) {
	svc := NewProductService(memory.NewProductStore())

	saved, err := svc.Create(context.Background(), model.Product{
		Name: "Widget", Description: "A widget", PriceCents: 1999, Stock: 5,
	})
	require.NoError(t, err)

	updated, err := svc.Patch(context.Background(), saved.ID, nil, nil, int64Ptr(1499), intPtr(12))
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "A widget", updated.Description)
	assert.Equal(t, int64(1499), updated.PriceCents)
	assert.Equal(t, 12, updated.Stock)

	_, err = svc.Patch(context.Background(), saved.ID, nil, nil, int64Ptr(-5), nil)
	assert.ErrorIs(t, err, ErrProductInvalid)
}

func TestProductServiceDelete(t *testing.T) {
	svc := NewProductService(memory.NewProductStore())

	saved, err := svc.Create(context.Background(), model.Product{Name: "Widget", PriceCents: 1999})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), saved.ID))
	require.NoError(t, svc.Delete(context.Background(), saved.ID))

	_, err = svc.Get(context.Background(), saved.ID)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}
