package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/app/importer"
	"github.com/mytheresa/catalog-admin/app/logging"
	"github.com/mytheresa/catalog-admin/app/validation"
	"github.com/mytheresa/catalog-admin/models"
	"github.com/shopspring/decimal"
)

// ImportResult reports a completed bulk import.
type ImportResult struct {
	ImportID      string `json:"importId"`
	InsertedCount int    `json:"insertedCount"`
}

// BulkImport validates every row of a CSV or XLSX payload and inserts them in
// one batch. format comes from the upload's file extension and must match the
// content. The first invalid row aborts the import and nothing is written.
func (s *Service) BulkImport(ctx context.Context, format importer.Format, data []byte) (*ImportResult, error) {
	if len(data) == 0 {
		return nil, api.BadRequest("a CSV or XLSX file is required")
	}
	rows, err := importer.Parse(data, format)
	if err != nil {
		return nil, api.BadRequest("could not read file: %v", err)
	}
	if len(rows) == 0 {
		return nil, api.BadRequest("the file contains no data rows")
	}

	importID := uuid.NewString()
	logger := logging.FromContext(ctx).With().
		Str("import_id", importID).
		Str("format", string(format)).
		Int("rows", len(rows)).
		Logger()

	batch := newImportBatch(len(rows))
	for _, row := range rows {
		product, err := s.importRow(ctx, row, batch)
		if err != nil {
			logger.Warn().Err(err).Int("line", row.Line).Msg("bulk import rejected")
			return nil, err
		}
		batch.products = append(batch.products, product)
	}

	if err := s.products.BulkCreateProducts(ctx, batch.products); err != nil {
		return nil, writeError(err)
	}
	logger.Info().Int("inserted", len(batch.products)).Msg("bulk import completed")

	return &ImportResult{
		ImportID:      importID,
		InsertedCount: len(batch.products),
	}, nil
}

// importBatch tracks names and SKUs already claimed by earlier rows.
type importBatch struct {
	products []models.Product
	names    map[string]int
	skus     map[string]int
}

func newImportBatch(size int) *importBatch {
	return &importBatch{
		products: make([]models.Product, 0, size),
		names:    make(map[string]int, size),
		skus:     make(map[string]int, size),
	}
}

func (s *Service) importRow(ctx context.Context, row importer.Row, batch *importBatch) (models.Product, error) {
	name := strings.TrimSpace(row.Get("Name"))
	price, err := decimal.NewFromString(row.Get("Price"))
	if err != nil {
		price = decimal.Zero
	}
	price = price.Round(validation.PriceScale)
	categoryID := wholeNumber(row.Get("CategoryId"))

	if err := validation.ProductCore(name, &categoryID, &price); err != nil {
		return models.Product{}, rowError(row, err)
	}
	if err := s.validator.CategoryExists(ctx, categoryID); err != nil {
		return models.Product{}, rowError(row, err)
	}

	sku := optionalString(ptr(row.Get("Sku")), true)
	if line, ok := batch.names[name]; ok {
		return models.Product{}, rowError(row, api.Conflict("product name %q is repeated from line %d", name, line))
	}
	if err := s.validator.UniqueName(ctx, validation.EntityProduct, name, 0); err != nil {
		return models.Product{}, rowError(row, err)
	}
	if sku != nil {
		if line, ok := batch.skus[*sku]; ok {
			return models.Product{}, rowError(row, api.Conflict("SKU %q is repeated from line %d", *sku, line))
		}
		if err := s.validator.UniqueSKU(ctx, sku, 0); err != nil {
			return models.Product{}, rowError(row, err)
		}
		batch.skus[*sku] = row.Line
	}
	batch.names[name] = row.Line

	stock, err := stockValue(row.Get("Stock"))
	if err != nil {
		return models.Product{}, rowError(row, err)
	}

	return models.Product{
		CategoryID:  categoryID,
		Name:        name,
		Description: optionalString(ptr(row.Get("Description")), false),
		SKU:         sku,
		Price:       price,
		Stock:       stock,
		IsActive:    true,
	}, nil
}

var (
	maxInt = decimal.NewFromInt(math.MaxInt)
	minInt = decimal.NewFromInt(math.MinInt)
)

// wholeNumber parses a positive integer cell, tolerating spreadsheet
// renderings such as "3.0". Anything else, including values past the int
// range, is zero.
func wholeNumber(s string) uint {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxInt) {
		return 0
	}
	return uint(d.IntPart())
}

// stockValue truncates a numeric stock cell. Text is zero; numbers past the
// int range are rejected.
func stockValue(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, nil
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxInt) || d.LessThan(minInt) {
		return 0, api.BadRequest("stock is out of range")
	}
	return int(d.IntPart()), nil
}

// rowError prefixes a validation failure with the file line it came from.
func rowError(row importer.Row, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &api.Error{Status: apiErr.Status, Message: fmt.Sprintf("row %d: %s", row.Line, apiErr.Message)}
	}
	return err
}

func ptr(s string) *string {
	return &s
}
