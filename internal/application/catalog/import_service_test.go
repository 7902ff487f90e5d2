package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/cache"
	csvimport "github.com/canteen/backend/internal/infrastructure/import"
)

type importFixture struct {
	importer *ProductImportService
	products *fakeProductRepo
	theater  uuid.UUID
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	productRepo := newFakeProductRepo()
	categoryRepo := newFakeCategoryRepo(productRepo)
	logger := zap.NewNop()
	menu := NewMenuService(productRepo, categoryRepo, cache.NewInMemoryMenuCache(), logger)

	theater := uuid.New()
	category, err := catalog.NewCategory(theater, "DRINKS", "Drinks")
	require.NoError(t, err)
	require.NoError(t, categoryRepo.Create(context.Background(), category))

	return &importFixture{
		importer: NewProductImportService(productRepo, categoryRepo, menu, logger),
		products: productRepo,
		theater:  theater,
	}
}

func (f *importFixture) addProduct(t *testing.T, code, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.theater, code, name, "cup")
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), product))
	return product
}

func TestImportCSVCreatesProducts(t *testing.T) {
	f := newImportFixture(t)

	csv := "code,name,unit,price,cost_price,min_threshold,shelf_life_days,is_vegetarian,category_code,status\n" +
		"ESP-01,Espresso,cup,2.50,0.80,10,0,yes,DRINKS,active\n" +
		"SAND-01,Club Sandwich,pcs,6.00,2.40,5,2,no,,inactive\n"

	result, err := f.importer.ImportCSV(context.Background(), f.theater, []byte(csv), ImportModeSkip)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	espresso, err := f.products.FindByCode(context.Background(), f.theater, "ESP-01")
	require.NoError(t, err)
	assert.True(t, espresso.Price.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, espresso.MinThreshold.Equal(decimal.NewFromInt(10)))
	assert.True(t, espresso.IsVegetarian)
	require.NotNil(t, espresso.CategoryID)

	sandwich, err := f.products.FindByCode(context.Background(), f.theater, "SAND-01")
	require.NoError(t, err)
	assert.Equal(t, 2, sandwich.ShelfLifeDays)
	assert.Equal(t, catalog.ProductStatusInactive, sandwich.Status)
	assert.Nil(t, sandwich.CategoryID)
}

func TestImportCSVSkipMode(t *testing.T) {
	f := newImportFixture(t)
	existing := f.addProduct(t, "ESP-01", "Espresso")

	csv := "code,name,unit,price\nESP-01,Renamed,cup,9.99\nLAT-01,Latte,cup,3.20\n"
	result, err := f.importer.ImportCSV(context.Background(), f.theater, []byte(csv), ImportModeSkip)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Created)

	kept, err := f.products.FindByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", kept.Name)
}

func TestImportCSVUpdateMode(t *testing.T) {
	f := newImportFixture(t)
	existing := f.addProduct(t, "ESP-01", "Espresso")

	csv := "code,name,unit,price,category_code\nesp-01,Double Espresso,cup,3.00,drinks\n"
	result, err := f.importer.ImportCSV(context.Background(), f.theater, []byte(csv), ImportModeUpdate)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)

	updated, err := f.products.FindByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Double Espresso", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("3.00")))
	require.NotNil(t, updated.CategoryID)
}

func TestImportCSVFailMode(t *testing.T) {
	f := newImportFixture(t)
	f.addProduct(t, "ESP-01", "Espresso")

	csv := "code,name,unit,price\nESP-01,Espresso,cup,2.50\n"
	result, err := f.importer.ImportCSV(context.Background(), f.theater, []byte(csv), ImportModeFail)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, csvimport.ErrCodeDuplicateCode, result.Errors[0].Code)
}

func TestImportCSVCollectsRowErrors(t *testing.T) {
	f := newImportFixture(t)

	csv := "code,name,unit,price,category_code\n" +
		"ESP-01,Espresso,cup,2.50,DRINKS\n" + // valid
		",Nameless,cup,1.00,\n" + // missing code
		"BAD-01,Bad Price,cup,cheap,\n" + // unparseable price
		"LOST-01,Lost,cup,1.00,GONE\n" // unknown category

	result, err := f.importer.ImportCSV(context.Background(), f.theater, []byte(csv), ImportModeSkip)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Failed)

	codes := make(map[string]int)
	for _, e := range result.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, 1, codes[csvimport.ErrCodeRequiredField])
	assert.Equal(t, 1, codes[csvimport.ErrCodeInvalidValue])
	assert.Equal(t, 1, codes[csvimport.ErrCodeUnknownReference])
}

func TestImportCSVRejectsBadRequests(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()

	_, err := f.importer.ImportCSV(ctx, f.theater, []byte("code,name\nESP-01,Espresso\n"), ImportMode("merge"))
	assertDomainCode(t, err, "INVALID_IMPORT_MODE")

	_, err = f.importer.ImportCSV(ctx, f.theater, []byte("code,name\nESP-01,Espresso\n"), ImportModeSkip)
	assertDomainCode(t, err, "IMPORT_MISSING_COLUMNS")

	_, err = f.importer.ImportCSV(ctx, f.theater, []byte(""), ImportModeSkip)
	assertDomainCode(t, err, "IMPORT_INVALID_FILE")

	huge := []byte("code,name,unit,price\n" + strings.Repeat("x", maxImportBytes))
	_, err = f.importer.ImportCSV(ctx, f.theater, huge, ImportModeSkip)
	assertDomainCode(t, err, "IMPORT_FILE_TOO_LARGE")
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
