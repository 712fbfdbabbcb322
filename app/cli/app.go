package cli

import (
	"github.com/mytheresa/catalog-admin/app/catalog"
	"github.com/mytheresa/catalog-admin/app/categories"
	"github.com/mytheresa/catalog-admin/app/config"
	"github.com/mytheresa/catalog-admin/app/database"
	"github.com/mytheresa/catalog-admin/app/validation"
	"github.com/mytheresa/catalog-admin/models"
	"gorm.io/gorm"
)

// app is the composition root: repositories, validator and services are
// built once and shared by every request.
type app struct {
	db           *gorm.DB
	categoryRepo *models.CategoriesRepository
	products     *catalog.Service
	categories   *categories.Service
}

func newApp(cfg *config.Config) (*app, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, err
		}
	}

	categoryRepo := models.NewCategoriesRepository(db)
	productRepo := models.NewProductsRepository(db)
	validator := validation.New(categoryRepo, productRepo)

	return &app{
		db:           db,
		categoryRepo: categoryRepo,
		products:     catalog.NewService(productRepo, validator),
		categories:   categories.NewService(categoryRepo, validator),
	}, nil
}

func (a *app) Close() error {
	return database.Close(a.db)
}
