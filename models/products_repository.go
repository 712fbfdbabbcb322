package models

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bulkInsertBatchSize bounds the rows sent per INSERT statement.
const bulkInsertBatchSize = 100

type ProductsRepository struct {
	db *gorm.DB
}

// ActiveFilter selects products by their isActive flag.
type ActiveFilter int

const (
	// ActiveOnly is the default listing.
	ActiveOnly ActiveFilter = iota
	InactiveOnly
	AnyActive
)

// Sortable product columns.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "created_at"
)

type ProductFilters struct {
	Search     string
	CategoryID *uint
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Active     ActiveFilter
	SortBy     string
	SortDesc   bool
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	return translateWriteError(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

// BulkCreateProducts inserts every product in one transaction; any rejected
// row rolls back the whole batch.
func (r *ProductsRepository) BulkCreateProducts(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(&products, bulkInsertBatchSize).Error
	})
	return translateWriteError(err)
}

// GetByID loads a product with its category id and name, active or not.
func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category", selectCategorySummary).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) GetByName(ctx context.Context, name string) (*Product, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *ProductsRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return r.findOne(ctx, "sku = ?", sku)
}

func (r *ProductsRepository) findOne(ctx context.Context, cond string, arg any) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetFilteredProducts returns one page of products plus the number of rows
// matching the filters regardless of offset and limit.
func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	// Count total after filtering
	if err := r.db.WithContext(ctx).
		Model(&Product{}).
		Scopes(applyProductFilters(filters)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(applyProductFilters(filters), orderProducts(filters)).
		Preload("Category", selectCategorySummary).
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// UpdateProduct applies a partial update keyed by column name.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) SoftDeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func selectCategorySummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func applyProductFilters(filters ProductFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filters.Search != "" {
			db = db.Where(`products.name LIKE ? ESCAPE '\'`, "%"+escapeLike(filters.Search)+"%")
		}
		if filters.CategoryID != nil {
			db = db.Where("products.category_id = ?", *filters.CategoryID)
		}
		if filters.PriceMin != nil {
			db = db.Where("products.price >= ?", *filters.PriceMin)
		}
		if filters.PriceMax != nil {
			db = db.Where("products.price <= ?", *filters.PriceMax)
		}
		switch filters.Active {
		case ActiveOnly:
			db = db.Where("products.is_active = ?", true)
		case InactiveOnly:
			db = db.Where("products.is_active = ?", false)
		}
		return db
	}
}

func orderProducts(filters ProductFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := filters.SortBy
		switch column {
		case SortByName, SortByPrice, SortByCreatedAt:
		default:
			column = SortByCreatedAt
		}
		// id keeps pages stable when the sort column has ties
		return db.
			Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: column}, Desc: filters.SortDesc}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: "id"}, Desc: filters.SortDesc})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
