package categories

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/models"
)

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	api.OK(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	category, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusOK, toResponse(*category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := api.Decode(r, &input); err != nil {
		api.Fail(w, r, err)
		return
	}
	category, err := h.svc.CreateCategory(r.Context(), input)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusCreated, toResponse(*category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	var patch CategoryPatch
	if err := api.Decode(r, &patch); err != nil {
		api.Fail(w, r, err)
		return
	}
	category, err := h.svc.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusOK, toResponse(*category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "category deleted")
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
