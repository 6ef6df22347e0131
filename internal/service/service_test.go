package service_test

import (
	"context"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

func seedCategory(t *testing.T, store repository.Store, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	require.NoError(t, store.Categories().Create(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, store repository.Store, categoryID uint, name string, price int64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock, CategoryID: categoryID}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product
}

func seedUser(t *testing.T, store repository.Store, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Budi Santoso", Email: email, Role: model.RoleUser}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func stockOf(t *testing.T, store repository.Store, id uint) int {
	t.Helper()
	product, err := store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}
