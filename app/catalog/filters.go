package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mytheresa/catalog-admin/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductQuery is the sanitized form of the list query string.
type ProductQuery struct {
	Page     int
	PageSize int
	Filters  models.ProductFilters
}

func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func (q ProductQuery) Limit() int {
	return q.PageSize
}

// sortColumns maps the accepted sortBy values (lower-cased) to columns.
var sortColumns = map[string]string{
	"name":      models.SortByName,
	"price":     models.SortByPrice,
	"createdat": models.SortByCreatedAt,
}

// BuildFilters turns raw query parameters into a ProductQuery. Unparseable
// values fall back to their defaults instead of failing. maxPageSize caps
// pageSize; zero means MaxPageSize.
func BuildFilters(raw url.Values, maxPageSize int) ProductQuery {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}

	q := ProductQuery{
		Page:     positiveInt(raw.Get("page"), DefaultPage),
		PageSize: positiveInt(raw.Get("pageSize"), DefaultPageSize),
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	// keeps (page-1)*pageSize inside int
	if maxPage := math.MaxInt / q.PageSize; q.Page > maxPage {
		q.Page = maxPage
	}

	f := &q.Filters
	f.Search = raw.Get("search")

	if id, err := strconv.ParseUint(strings.TrimSpace(raw.Get("idCategoria")), 10, 0); err == nil && id > 0 {
		categoryID := uint(id)
		f.CategoryID = &categoryID
	}
	f.PriceMin = parseDecimal(raw.Get("precioMin"))
	f.PriceMax = parseDecimal(raw.Get("precioMax"))
	f.Active = parseActive(raw.Get("activo"))

	f.SortBy = models.SortByCreatedAt
	if col, ok := sortColumns[strings.ToLower(strings.TrimSpace(raw.Get("sortBy")))]; ok {
		f.SortBy = col
	}
	f.SortDesc = !strings.EqualFold(strings.TrimSpace(raw.Get("sortDir")), "asc")

	return q
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// parseActive reads the activo flag: "false" lists inactive products, "all"
// lists everything, anything else lists active products.
func parseActive(s string) models.ActiveFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false":
		return models.InactiveOnly
	case "all":
		return models.AnyActive
	default:
		return models.ActiveOnly
	}
}
