package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/app/importer"
	"github.com/mytheresa/catalog-admin/models"
)

// DefaultMaxUploadBytes bounds a bulk upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          uint      `json:"id"`
	CategoryID  uint      `json:"categoryId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	SKU         *string   `json:"sku"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Category    *Category `json:"category,omitempty"`
}

type Response struct {
	Items      []Product `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) (*Page, error)
	UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	BulkImport(ctx context.Context, format importer.Format, data []byte) (*ImportResult, error)
}

// Limits bounds listing and upload sizes. Zero values use the defaults.
type Limits struct {
	MaxPageSize    int
	MaxUploadBytes int64
}

type CatalogHandler struct {
	svc    ProductService
	limits Limits
}

func NewCatalogHandler(svc ProductService, limits Limits) *CatalogHandler {
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = MaxPageSize
	}
	if limits.MaxUploadBytes <= 0 {
		limits.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &CatalogHandler{
		svc:    svc,
		limits: limits,
	}
}

// HandleGet serves the paginated, filtered product listing.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := BuildFilters(r.URL.Query(), h.limits.MaxPageSize)

	page, err := h.svc.ListProducts(r.Context(), q)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	products := make([]Product, len(page.Items))
	for i, p := range page.Items {
		products[i] = toProduct(p)
	}

	totalPages := 0
	if page.PageSize > 0 {
		totalPages = int((page.Total + int64(page.PageSize) - 1) / int64(page.PageSize))
	}
	api.OK(w, http.StatusOK, Response{
		Items:      products,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := api.Decode(r, &input); err != nil {
		api.Fail(w, r, err)
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), input)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusCreated, toProduct(*product))
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	var patch ProductPatch
	if err := api.Decode(r, &patch); err != nil {
		api.Fail(w, r, err)
		return
	}
	product, err := h.svc.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "product deleted")
}

// HandleBulkUpload accepts a multipart upload in the "file" field. Only .csv
// and .xlsx names get through to the service.
func (h *CatalogHandler) HandleBulkUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, r, api.BadRequest("file exceeds the %d byte limit", tooLarge.Limit))
			return
		}
		api.Fail(w, r, api.BadRequest("a CSV or XLSX file is required in field \"file\""))
		return
	}
	defer file.Close()

	format, ok := importer.FormatFromFilename(header.Filename)
	if !ok {
		api.Fail(w, r, api.BadRequest("only .csv and .xlsx files are allowed"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	result, err := h.svc.BulkImport(r.Context(), format, data)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, api.Envelope{
		Success: true,
		Message: "bulk import completed",
		Data:    result,
	})
}

// HandleTemplate serves an empty import file, CSV unless ?format=xlsx.
func (h *CatalogHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	format := importer.FormatCSV
	if f := r.URL.Query().Get("format"); f != "" {
		var ok bool
		if format, ok = importer.FormatFromFilename("template." + f); !ok {
			api.Fail(w, r, api.BadRequest("format must be csv or xlsx"))
			return
		}
	}

	body, err := importer.Template(format)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=products_import_template."+string(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func toProduct(p models.Product) Product {
	out := Product{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category.ID != 0 {
		out.Category = &Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		}
	}
	return out
}
