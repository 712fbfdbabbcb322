// Package validation implements the field and store-backed checks shared by
// the category and product services.
package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/models"
	"github.com/shopspring/decimal"
)

// Entity names the table a uniqueness check runs against.
type Entity int

const (
	EntityCategory Entity = iota
	EntityProduct
)

func (e Entity) String() string {
	if e == EntityCategory {
		return "category"
	}
	return "product"
}

type CategoryFinder interface {
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
}

type ProductFinder interface {
	GetByName(ctx context.Context, name string) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// Validator holds no state beyond its lookups and is safe for concurrent use.
type Validator struct {
	categories CategoryFinder
	products   ProductFinder
}

func New(categories CategoryFinder, products ProductFinder) *Validator {
	return &Validator{
		categories: categories,
		products:   products,
	}
}

// PriceScale is the number of fractional digits a stored price keeps.
// Callers round to it before checking the price.
const PriceScale = 2

// ProductCore checks the structural product fields. categoryID and price are
// only checked when supplied.
func ProductCore(name string, categoryID *uint, price *decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return api.BadRequest("product name is required")
	}
	if categoryID != nil && *categoryID == 0 {
		return api.BadRequest("category is required")
	}
	if price != nil {
		return PositivePrice(*price)
	}
	return nil
}

func PositivePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return api.BadRequest("price must be greater than 0")
	}
	return nil
}

// CategoryName checks a category name is present.
func CategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return api.BadRequest("category name is required")
	}
	return nil
}

// CategoryExists fails unless id resolves to an active category.
func (v *Validator) CategoryExists(ctx context.Context, id uint) error {
	category, err := v.categories.GetCategoryByID(ctx, id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		return api.BadRequest("category does not exist or is inactive")
	}
	if err != nil {
		return err
	}
	if !category.IsActive {
		return api.BadRequest("category does not exist or is inactive")
	}
	return nil
}

// UniqueName fails when another row of entity holds the trimmed name.
// excludeID is the row being updated, or zero on create.
func (v *Validator) UniqueName(ctx context.Context, entity Entity, name string, excludeID uint) error {
	name = strings.TrimSpace(name)

	var (
		foundID uint
		err     error
	)
	switch entity {
	case EntityCategory:
		var c *models.Category
		if c, err = v.categories.GetCategoryByName(ctx, name); err == nil {
			foundID = c.ID
		} else if errors.Is(err, models.ErrCategoryNotFound) {
			return nil
		}
	default:
		var p *models.Product
		if p, err = v.products.GetByName(ctx, name); err == nil {
			foundID = p.ID
		} else if errors.Is(err, models.ErrProductNotFound) {
			return nil
		}
	}
	if err != nil {
		return err
	}
	if excludeID == 0 || foundID != excludeID {
		return api.Conflict("a %s named %q already exists", entity, name)
	}
	return nil
}

// UniqueSKU is a no-op for a nil or blank SKU.
func (v *Validator) UniqueSKU(ctx context.Context, sku *string, excludeID uint) error {
	if sku == nil || strings.TrimSpace(*sku) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	p, err := v.products.GetBySKU(ctx, trimmed)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if excludeID == 0 || p.ID != excludeID {
		return api.Conflict("a product with SKU %q already exists", trimmed)
	}
	return nil
}
