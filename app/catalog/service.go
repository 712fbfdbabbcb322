// Package catalog implements the product use cases: CRUD, paginated listing
// and bulk import, plus their HTTP handlers.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/app/validation"
	"github.com/mytheresa/catalog-admin/models"
	"github.com/shopspring/decimal"
)

// ProductStore is the persistence the product service needs.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	BulkCreateProducts(ctx context.Context, products []models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, id uint, fields map[string]any) error
	SoftDeleteProduct(ctx context.Context, id uint) error
}

// ProductInput is the body of a create request.
type ProductInput struct {
	CategoryID  uint             `json:"categoryId"`
	Name        string           `json:"name" validate:"max=150"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
}

// ProductPatch is the body of an update request. Nil fields are left as they are.
type ProductPatch struct {
	CategoryID  *uint            `json:"categoryId"`
	Name        *string          `json:"name" validate:"omitempty,max=150"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	SKU         *string          `json:"sku" validate:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"isActive"`
}

// Normalize trims the name and SKU so length limits apply to stored values.
func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = trimPtr(in.SKU)
}

func (p *ProductPatch) Normalize() {
	p.Name = trimPtr(p.Name)
	p.SKU = trimPtr(p.SKU)
}

// Page is one page of a product listing.
type Page struct {
	Items    []models.Product
	Total    int64
	Page     int
	PageSize int
}

type Service struct {
	products  ProductStore
	validator *validation.Validator
}

func NewService(products ProductStore, validator *validation.Validator) *Service {
	return &Service{
		products:  products,
		validator: validator,
	}
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price == nil {
		return nil, api.BadRequest("price is required")
	}
	price := in.Price.Round(validation.PriceScale)
	if err := validation.ProductCore(in.Name, &in.CategoryID, &price); err != nil {
		return nil, err
	}
	if err := s.validator.CategoryExists(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	sku := optionalString(in.SKU, true)
	if err := s.validator.UniqueName(ctx, validation.EntityProduct, name, 0); err != nil {
		return nil, err
	}
	if err := s.validator.UniqueSKU(ctx, sku, 0); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: optionalString(in.Description, false),
		SKU:         sku,
		Price:       price,
		IsActive:    true,
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, writeError(err)
	}
	return s.GetProduct(ctx, product.ID)
}

// GetProduct resolves active and inactive products alike.
func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil, api.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, q ProductQuery) (*Page, error) {
	items, total, err := s.products.GetFilteredProducts(ctx, q.Offset(), q.Limit(), q.Filters)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// UpdateProduct re-validates only the supplied fields. Setting isActive to
// true is how a soft-deleted product comes back.
func (s *Service) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validation.ProductCore(*patch.Name, nil, nil); err != nil {
			return nil, err
		}
	}
	var price decimal.Decimal
	if patch.Price != nil {
		price = patch.Price.Round(validation.PriceScale)
		if err := validation.PositivePrice(price); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == 0 {
			return nil, api.BadRequest("category is required")
		}
		if err := s.validator.CategoryExists(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := make(map[string]any)
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.validator.UniqueName(ctx, validation.EntityProduct, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if patch.SKU != nil {
		sku := optionalString(patch.SKU, true)
		if err := s.validator.UniqueSKU(ctx, sku, id); err != nil {
			return nil, err
		}
		fields["sku"] = nullable(sku)
	}
	if patch.CategoryID != nil {
		fields["category_id"] = *patch.CategoryID
	}
	if patch.Description != nil {
		fields["description"] = nullable(optionalString(patch.Description, false))
	}
	if patch.Price != nil {
		fields["price"] = price
	}
	if patch.Stock != nil {
		fields["stock"] = *patch.Stock
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	if err := s.products.UpdateProduct(ctx, id, fields); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return nil, api.NotFound("product not found")
		}
		return nil, writeError(err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct marks the product inactive.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.products.SoftDeleteProduct(ctx, id); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return api.NotFound("product not found")
		}
		return err
	}
	return nil
}

// writeError reports unique index violations that slipped past the pre-checks.
func writeError(err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return api.Conflict("a product with the same name or SKU already exists")
	}
	return err
}

// optionalString maps blank strings to nil, trimming the kept value when asked.
func optionalString(s *string, trim bool) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	if trim {
		v = strings.TrimSpace(v)
	}
	return &v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// nullable unwraps s for a column update; nil becomes NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
