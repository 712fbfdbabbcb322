// Package categories implements the category use cases and their HTTP
// handlers.
package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/app/validation"
	"github.com/mytheresa/catalog-admin/models"
)

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetAllCategories(ctx context.Context, onlyActive bool) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, fields map[string]any) error
	SoftDeleteCategory(ctx context.Context, id uint) error
}

// CategoryInput is the body of a create request.
type CategoryInput struct {
	Name        string  `json:"name" validate:"max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// CategoryPatch is the body of an update request. Nil fields are left as they are.
type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"isActive"`
}

// Normalize trims the name so the length limit applies to the stored value.
func (in *CategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (p *CategoryPatch) Normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
}

type Service struct {
	repo      CategoryStore
	validator *validation.Validator
}

func NewService(repo CategoryStore, validator *validation.Validator) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
	}
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validation.CategoryName(in.Name); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if err := s.validator.UniqueName(ctx, validation.EntityCategory, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        name,
		Description: blankToNil(in.Description),
		IsActive:    true,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, writeError(err)
	}
	return category, nil
}

// ListCategories returns active categories only.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAllCategories(ctx, true)
}

func (s *Service) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		return nil, api.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if patch.Name != nil {
		if err := validation.CategoryName(*patch.Name); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*patch.Name)
		if err := s.validator.UniqueName(ctx, validation.EntityCategory, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if patch.Description != nil {
		if d := blankToNil(patch.Description); d != nil {
			fields["description"] = *d
		} else {
			fields["description"] = nil
		}
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	if err := s.repo.UpdateCategory(ctx, id, fields); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return nil, api.NotFound("category not found")
		}
		return nil, writeError(err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory marks the category inactive. Its products are untouched.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteCategory(ctx, id); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return api.NotFound("category not found")
		}
		return err
	}
	return nil
}

func writeError(err error) error {
	if errors.Is(err, models.ErrDuplicateKey) {
		return api.Conflict("a category with the same name already exists")
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
