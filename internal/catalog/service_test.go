package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday-qr/internal/apperr"
	catalogdb "myday-qr/internal/catalog/db"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
	"myday-qr/internal/testutil"
)

func setupService(t *testing.T) *Service {
	store := &catalogdb.DB{Bun: testutil.NewSQLiteDB(t, (*models.Product)(nil), (*models.Example)(nil))}
	return NewService(store, logger.NewNopLogger())
}

func TestStorefrontGroupsAndDedupes(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	seed := []models.Product{
		{Name: "Caneca LOVE", Price: 13.90, IsActive: true, DisplayOrder: 1},
		{Name: " caneca love ", Price: 13.9, IsActive: true, DisplayOrder: 2},
		{Name: "Caneca Mãe", Price: 12.5, IsActive: true, DisplayOrder: 3},
		{Name: "Porta-chaves", Price: 6, IsActive: true, DisplayOrder: 4},
		{Name: "Quadro", Price: 20, IsActive: true, DisplayOrder: 5},
		{Name: "Íman", Price: 4, IsActive: false, DisplayOrder: 6},
	}
	for _, p := range seed {
		_, err := svc.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	cats, err := svc.Storefront(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)

	assert.Equal(t, CategoryDecoration, cats[0].ID)
	assert.Equal(t, CategoryMugs, cats[1].ID)
	assert.Equal(t, CategoryKeyrings, cats[2].ID)

	mugs := cats[1]
	assert.Len(t, mugs.Products, 2)
	assert.Equal(t, "Caneca LOVE", mugs.Products[0].Name)
	assert.InDelta(t, 12.5, mugs.MinPrice, 0.0001)
	assert.Equal(t, "Canecas", mugs.Label)
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CreateProduct(ctx, models.Product{Name: " ", Price: 1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.CreateProduct(ctx, models.Product{Name: "X", Price: -1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	p, err := svc.CreateProduct(ctx, models.Product{Name: "Caneca", Price: 9.999, Category: strPtr(" CANECAS "), IsActive: true})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p.Price, 0.0001)
	assert.Equal(t, "canecas", *p.Category)

	updated, err := svc.UpdateProduct(ctx, p.ID, models.Product{Name: "Caneca XL", Price: 15, IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "Caneca XL", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.Category)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caneca XL", got.Name)

	_, err = svc.UpdateProduct(ctx, "missing", models.Product{Name: "Y", Price: 1})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.True(t, errors.Is(svc.DeleteProduct(ctx, p.ID), apperr.ErrNotFound))
}

func TestExamples(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	shown, err := svc.CreateExample(ctx, models.Example{Title: "Caneca do Pedro", IsActive: true, DisplayOrder: 2})
	require.NoError(t, err)
	_, err = svc.CreateExample(ctx, models.Example{Title: "Rascunho", IsActive: false, DisplayOrder: 1})
	require.NoError(t, err)

	public, err := svc.PublicExamples(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, shown.ID, public[0].ID)

	all, err := svc.ListExamples(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rascunho", all[0].Title)

	_, err = svc.UpdateExample(ctx, shown.ID, models.Example{Title: ""})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	renamed, err := svc.UpdateExample(ctx, shown.ID, models.Example{Title: "Caneca da Rita", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Caneca da Rita", renamed.Title)

	require.NoError(t, svc.DeleteExample(ctx, shown.ID))
}
