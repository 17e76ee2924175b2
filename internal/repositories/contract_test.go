package repositories_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productos/internal/models"
	"productos/internal/repositories"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// tickingClock returns a clock that advances one second per call, so
// createdAt ordering is deterministic.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

// runRepositoryContract checks the behavior every ProductRepository must
// share. newRepo returns a fresh, empty repository.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	ctx := context.Background()

	t.Run("CreateAndFindByIDRoundTrip", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{
			SKU:       strPtr("AB-100"),
			Peso:      floatPtr(1.5),
			Precio:    floatPtr(9.99),
			Categoria: strPtr("OTROS"),
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.True(t, repo.ValidID(created.ID))
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "AB-100", found.SKU)
		assert.Equal(t, 1.5, found.Peso)
		assert.Equal(t, 9.99, found.Precio)
		assert.Equal(t, "OTROS", found.Categoria)
		assert.False(t, found.CreatedAt.IsZero())
		assert.False(t, found.UpdatedAt.IsZero())
	})

	t.Run("CreateAppliesDefaultsAndNormalizes", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{
			SKU:    strPtr("  SKU-1  "),
			Precio: floatPtr(3.456),
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", created.SKU)
		assert.Equal(t, models.DefaultCategory, created.Categoria)
		assert.Equal(t, 0.0, created.Peso)
		assert.Equal(t, 3.46, created.Precio)
	})

	t.Run("CreateEnforcesStoreConstraints", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, models.ProductFields{Categoria: strPtr("NOT_REAL")})
		fieldErrs, ok := models.IsValidation(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, "categoria", fieldErrs[0].Field)

		_, err = repo.Create(ctx, models.ProductFields{Precio: floatPtr(-1)})
		_, ok = models.IsValidation(err)
		assert.True(t, ok)

		_, err = repo.Create(ctx, models.ProductFields{Descripcion: strPtr(strings.Repeat("d", 251))})
		_, ok = models.IsValidation(err)
		assert.True(t, ok)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("FindAllNewestFirst", func(t *testing.T) {
		repo := newRepo(t)

		for _, sku := range []string{"FIRST", "SECOND", "THIRD"} {
			_, err := repo.Create(ctx, models.ProductFields{SKU: strPtr(sku)})
			require.NoError(t, err)
		}

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "THIRD", all[0].SKU)
		assert.Equal(t, "SECOND", all[1].SKU)
		assert.Equal(t, "FIRST", all[2].SKU)
	})

	t.Run("FindAllEmpty", func(t *testing.T) {
		repo := newRepo(t)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("FindBySKUReturnsOldestMatch", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, models.ProductFields{SKU: strPtr("DUP"), Referencia: strPtr("one")})
		require.NoError(t, err)
		_, err = repo.Create(ctx, models.ProductFields{SKU: strPtr("DUP"), Referencia: strPtr("two")})
		require.NoError(t, err)

		found, err := repo.FindBySKU(ctx, "DUP")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)

		_, err = repo.FindBySKU(ctx, "MISSING")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("FindByCategory", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, models.ProductFields{Categoria: strPtr("PROTECCIÓN PIES")})
		require.NoError(t, err)
		_, err = repo.Create(ctx, models.ProductFields{Categoria: strPtr("TECNOLOGÍA")})
		require.NoError(t, err)
		_, err = repo.Create(ctx, models.ProductFields{Categoria: strPtr("PROTECCIÓN PIES")})
		require.NoError(t, err)

		feet, err := repo.FindByCategory(ctx, "PROTECCIÓN PIES")
		require.NoError(t, err)
		assert.Len(t, feet, 2)
		for _, p := range feet {
			assert.Equal(t, "PROTECCIÓN PIES", p.Categoria)
		}

		none, err := repo.FindByCategory(ctx, "SEÑALIZACIÓN")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("FindByIDNotFound", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{})
		require.NoError(t, err)
		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("UpdateMergesFields", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{
			SKU:       strPtr("UPD-1"),
			Peso:      floatPtr(2),
			Precio:    floatPtr(10),
			Categoria: strPtr("TECNOLOGÍA"),
		})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, models.ProductFields{Precio: floatPtr(15.5)})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "UPD-1", updated.SKU)
		assert.Equal(t, 2.0, updated.Peso)
		assert.Equal(t, 15.5, updated.Precio)
		assert.Equal(t, "TECNOLOGÍA", updated.Categoria)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 15.5, found.Precio)
	})

	t.Run("UpdateRejectsInvalidMergeAndKeepsRecord", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{Precio: floatPtr(10)})
		require.NoError(t, err)

		_, err = repo.Update(ctx, created.ID, models.ProductFields{Precio: floatPtr(-5)})
		_, ok := models.IsValidation(err)
		assert.True(t, ok, "expected validation error, got %v", err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, found.Precio)
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{})
		require.NoError(t, err)
		_, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		_, err = repo.Update(ctx, created.ID, models.ProductFields{Precio: floatPtr(1)})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, models.ProductFields{})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("BulkCreate", func(t *testing.T) {
		repo := newRepo(t)

		products, err := repo.BulkCreate(ctx, []models.ProductFields{
			{SKU: strPtr("B-1"), Categoria: strPtr("PROTECCIÓN VISUAL")},
			{SKU: strPtr("B-2"), Precio: floatPtr(1.239)},
		})
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.True(t, repo.ValidID(p.ID))
		}
		assert.Equal(t, 1.24, products[1].Precio)
		assert.Equal(t, models.DefaultCategory, products[1].Categoria)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("BulkCreateAllOrNothing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.BulkCreate(ctx, []models.ProductFields{
			{SKU: strPtr("X")},
			{Categoria: strPtr("NOT_REAL")},
		})
		fieldErrs, ok := models.IsValidation(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, "[1].categoria", fieldErrs[0].Field)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("BulkCreateEmpty", func(t *testing.T) {
		repo := newRepo(t)

		products, err := repo.BulkCreate(ctx, []models.ProductFields{})
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("ValidID", func(t *testing.T) {
		repo := newRepo(t)

		assert.False(t, repo.ValidID(""))
		assert.False(t, repo.ValidID("not-an-id"))
		assert.False(t, repo.ValidID("'; DROP TABLE productos; --"))
	})
}
