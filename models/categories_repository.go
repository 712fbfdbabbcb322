package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	return translateWriteError(r.db.WithContext(ctx).Create(category).Error)
}

// GetAllCategories lists categories ordered by name. Inactive rows are skipped
// when onlyActive is set.
func (r *CategoriesRepository) GetAllCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	var categories []Category
	query := r.db.WithContext(ctx).Order("name ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetCategoryByName matches the exact name, active or not.
func (r *CategoriesRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update keyed by column name.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoriesRepository) SoftDeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// HardDeleteCategory physically removes the row. Products still referencing it
// make the store reject the delete.
func (r *CategoriesRepository) HardDeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
