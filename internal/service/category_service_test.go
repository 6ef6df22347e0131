package service_test

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	svc := service.NewCategoryService(newStore(t))
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &model.CategoryInput{Name: "  Elektronik "})
	require.NoError(t, err)
	assert.Equal(t, "Elektronik", created.Name)

	_, err = svc.CreateCategory(ctx, &model.CategoryInput{Name: "Elektronik"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.CreateCategory(ctx, &model.CategoryInput{Name: "   "})
	assert.True(t, apperr.IsValidation(err))

	fashion, err := svc.CreateCategory(ctx, &model.CategoryInput{Name: "Fashion"})
	require.NoError(t, err)

	// renaming to its own name is allowed, to a taken one is not
	_, err = svc.RenameCategory(ctx, fashion.ID, &model.CategoryInput{Name: "Fashion"})
	require.NoError(t, err)
	_, err = svc.RenameCategory(ctx, fashion.ID, &model.CategoryInput{Name: "Elektronik"})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.RenameCategory(ctx, 999, &model.CategoryInput{Name: "Baru"})
	assert.True(t, apperr.IsNotFound(err))

	renamed, err := svc.RenameCategory(ctx, fashion.ID, &model.CategoryInput{Name: "Pakaian"})
	require.NoError(t, err)
	assert.Equal(t, "Pakaian", renamed.Name)

	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Elektronik", all[0].Name)

	hits, err := svc.SearchCategories(ctx, "paka")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, fashion.ID, hits[0].ID)

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elektronik", got.Name)
}

func TestCategoryService_ConcurrentCreateSameName(t *testing.T) {
	svc := service.NewCategoryService(newStore(t))
	ctx := context.Background()
	const writers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateCategory(ctx, &model.CategoryInput{Name: "Elektronik"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
				return
			}
			assert.True(t, apperr.IsValidation(err), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
