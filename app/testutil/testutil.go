// Package testutil provides an in-memory store for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/mytheresa/catalog-admin/app/database"
	"github.com/mytheresa/catalog-admin/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedCategory inserts a category and returns it.
func SeedCategory(t testing.TB, db *gorm.DB, name string, active bool) models.Category {
	t.Helper()
	c := models.Category{Name: name, IsActive: true}
	require.NoError(t, models.NewCategoriesRepository(db).CreateCategory(context.Background(), &c))
	if !active {
		require.NoError(t, models.NewCategoriesRepository(db).SoftDeleteCategory(context.Background(), c.ID))
		c.IsActive = false
	}
	return c
}

// SeedProduct inserts an active product and returns it.
func SeedProduct(t testing.TB, db *gorm.DB, categoryID uint, name string, price float64) models.Product {
	t.Helper()
	p := models.Product{
		CategoryID: categoryID,
		Name:       name,
		Price:      decimal.NewFromFloat(price),
		IsActive:   true,
	}
	require.NoError(t, models.NewProductsRepository(db).CreateProduct(context.Background(), &p))
	return p
}
