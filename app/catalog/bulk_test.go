package catalog_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/mytheresa/catalog-admin/app/importer"
	"github.com/mytheresa/catalog-admin/app/testutil"
	"github.com/mytheresa/catalog-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func countProducts(t *testing.T, f *fixture) int64 {
	t.Helper()
	_, total, err := f.products.GetFilteredProducts(context.Background(), 0, 1, models.ProductFilters{Active: models.AnyActive})
	require.NoError(t, err)
	return total
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestBulkImport(t *testing.T) {
	ctx := context.Background()

	t.Run("Five valid CSV rows", func(t *testing.T) {
		f := newFixture(t)
		csv := "Name *,Description,Sku,Price *,Stock,CategoryId *\n" +
			"Runner,Light,RUN-1,49.90,3,1\n" +
			"Trail,,,59.90,,1\n" +
			"Court,Leather,CRT-1,79,10,1\n" +
			",,,,,\n" +
			"Slip-on,,SLP-1,29.5,abc,1\n" +
			"Derby,Formal,,120,2.0,1.0\n"

		res, err := f.svc.BulkImport(ctx, importer.FormatCSV, []byte(csv))
		require.NoError(t, err)
		assert.Equal(t, 5, res.InsertedCount)
		assert.NotEmpty(t, res.ImportID)
		assert.Equal(t, int64(5), countProducts(t, f))

		p, err := f.products.GetByName(ctx, "Slip-on")
		require.NoError(t, err)
		assert.Zero(t, p.Stock, "non-numeric stock becomes zero")
		assert.True(t, p.IsActive)

		p, err = f.products.GetByName(ctx, "Trail")
		require.NoError(t, err)
		assert.Nil(t, p.SKU)
		assert.Nil(t, p.Description)

		p, err = f.products.GetByName(ctx, "Derby")
		require.NoError(t, err)
		assert.Equal(t, 2, p.Stock)
	})

	t.Run("XLSX with formatted numbers", func(t *testing.T) {
		f := newFixture(t)
		data := workbook(t, [][]any{
			{"Name", "Price", "Stock", "CategoryId"},
			{"Chelsea", 1234.5, 1500, 1},
		})
		wb, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		// #,##0.00
		style, err := wb.NewStyle(&excelize.Style{NumFmt: 4})
		require.NoError(t, err)
		require.NoError(t, wb.SetCellStyle("Sheet1", "B2", "C2", style))
		buf, err := wb.WriteToBuffer()
		require.NoError(t, err)
		require.NoError(t, wb.Close())

		res, err := f.svc.BulkImport(ctx, importer.FormatXLSX, buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 1, res.InsertedCount)

		p, err := f.products.GetByName(ctx, "Chelsea")
		require.NoError(t, err)
		assert.Equal(t, "1234.5", p.Price.String())
		assert.Equal(t, 1500, p.Stock)
	})

	t.Run("Content must match the extension", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BulkImport(ctx, importer.FormatXLSX, []byte("Name,Price,CategoryId\nA,10,1\n"))
		apiErr := requireStatus(t, err, http.StatusBadRequest)
		assert.Equal(t, "could not read file: file content does not match its extension: expected xlsx", apiErr.Message)
		assert.Zero(t, countProducts(t, f))
	})

	t.Run("XLSX first sheet", func(t *testing.T) {
		f := newFixture(t)
		data := workbook(t, [][]any{
			{"Name", "Description", "Sku", "Price", "Stock", "CategoryId"},
			{"Oxford", "Classic", "OXF-1", 150.25, 4, 1},
			{"Mule", nil, nil, 35, nil, 1},
		})

		res, err := f.svc.BulkImport(ctx, importer.FormatXLSX, data)
		require.NoError(t, err)
		assert.Equal(t, 2, res.InsertedCount)

		p, err := f.products.GetBySKU(ctx, "OXF-1")
		require.NoError(t, err)
		assert.Equal(t, "150.25", p.Price.String())
		assert.Equal(t, 4, p.Stock)
	})

	testCases := []struct {
		name    string
		data    string
		status  int
		message string
	}{
		{
			name:    "Empty payload",
			data:    "",
			status:  http.StatusBadRequest,
			message: "a CSV or XLSX file is required",
		},
		{
			name:    "Header only",
			data:    "Name,Description,Sku,Price,Stock,CategoryId\n",
			status:  http.StatusBadRequest,
			message: "the file contains no data rows",
		},
		{
			name: "Third row with zero price",
			data: "Name,Price,CategoryId\n" +
				"A,10,1\n" +
				"B,10,1\n" +
				"C,0,1\n" +
				"D,10,1\n" +
				"E,10,1\n",
			status:  http.StatusBadRequest,
			message: "row 4: price must be greater than 0",
		},
		{
			name:    "Unparseable price",
			data:    "Name,Price,CategoryId\nA,ten,1\n",
			status:  http.StatusBadRequest,
			message: "row 2: price must be greater than 0",
		},
		{
			name:    "Price rounding to zero",
			data:    "Name,Price,CategoryId\nPenny,0.001,1\n",
			status:  http.StatusBadRequest,
			message: "row 2: price must be greater than 0",
		},
		{
			name:    "Stock past int range",
			data:    "Name,Price,Stock,CategoryId\nA,10,99999999999999999999,1\n",
			status:  http.StatusBadRequest,
			message: "row 2: stock is out of range",
		},
		{
			name:    "Category id past int range",
			data:    "Name,Price,CategoryId\nA,10,18446744073709551617\n",
			status:  http.StatusBadRequest,
			message: "row 2: category is required",
		},
		{
			name:    "Missing category",
			data:    "Name,Price,CategoryId\nA,10,\n",
			status:  http.StatusBadRequest,
			message: "row 2: category is required",
		},
		{
			name:    "Fractional category",
			data:    "Name,Price,CategoryId\nA,10,1.5\n",
			status:  http.StatusBadRequest,
			message: "row 2: category is required",
		},
		{
			name:    "Inactive category",
			data:    "Name,Price,CategoryId\nA,10,2\n",
			status:  http.StatusBadRequest,
			message: "row 2: category does not exist or is inactive",
		},
		{
			name:    "Blank name",
			data:    "Name,Price,CategoryId\n ,10,1\n",
			status:  http.StatusBadRequest,
			message: "row 2: product name is required",
		},
		{
			name:    "Name repeated in the file",
			data:    "Name,Price,CategoryId\nA,10,1\nA,12,1\n",
			status:  http.StatusConflict,
			message: `row 3: product name "A" is repeated from line 2`,
		},
		{
			name:    "SKU repeated in the file",
			data:    "Name,Sku,Price,CategoryId\nA,X-1,10,1\nB,X-1,12,1\n",
			status:  http.StatusConflict,
			message: `row 3: SKU "X-1" is repeated from line 2`,
		},
		{
			name:    "Name already stored",
			data:    "Name,Price,CategoryId\nStored,10,1\n",
			status:  http.StatusConflict,
			message: `row 2: a product named "Stored" already exists`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			testutil.SeedProduct(t, f.db, f.shoes.ID, "Stored", 10)

			_, err := f.svc.BulkImport(ctx, importer.FormatCSV, []byte(tc.data))
			apiErr := requireStatus(t, err, tc.status)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, int64(1), countProducts(t, f), "nothing is written on failure")
		})
	}
}
