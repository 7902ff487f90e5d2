package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	csvimport "github.com/canteen/backend/internal/infrastructure/import"
)

// ImportMode selects what happens when a row's product code already
// exists in the catalog.
type ImportMode string

const (
	// ImportModeSkip leaves the existing product untouched.
	ImportModeSkip ImportMode = "skip"
	// ImportModeUpdate overwrites the existing product with the row.
	ImportModeUpdate ImportMode = "update"
	// ImportModeFail marks the row as failed.
	ImportModeFail ImportMode = "fail"
)

// Valid reports whether the mode is one of the supported values.
func (m ImportMode) Valid() bool {
	switch m {
	case ImportModeSkip, ImportModeUpdate, ImportModeFail:
		return true
	}
	return false
}

const (
	maxImportBytes = 2 << 20
	maxImportRows  = 5000
	maxImportErrs  = 100
)

// requiredImportColumns must be present in the header row. Optional
// columns: description, cost_price, min_threshold, shelf_life_days,
// is_vegetarian, category_code, status.
var requiredImportColumns = []string{"code", "name", "unit", "price"}

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalRows       int                  `json:"total_rows"`
	Created         int                  `json:"created"`
	Updated         int                  `json:"updated"`
	Skipped         int                  `json:"skipped"`
	Failed          int                  `json:"failed"`
	Errors          []csvimport.RowError `json:"errors,omitempty"`
	ErrorsTruncated bool                 `json:"errors_truncated,omitempty"`
}

// ProductImportService bulk-loads products from an uploaded CSV file.
// Rows are validated first; rows that fail validation are reported and
// the remaining rows are still imported.
type ProductImportService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	menu         *MenuService
	logger       *zap.Logger
}

func NewProductImportService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	menu *MenuService,
	logger *zap.Logger,
) *ProductImportService {
	return &ProductImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		menu:         menu,
		logger:       logger,
	}
}

// ImportCSV parses, validates, and imports the file in one pass.
// File-level problems (bad encoding, missing columns) return an error;
// row-level problems are collected into the result.
func (s *ProductImportService) ImportCSV(ctx context.Context, theaterID uuid.UUID, data []byte, mode ImportMode) (*ImportResult, error) {
	if !mode.Valid() {
		return nil, shared.NewDomainError("INVALID_IMPORT_MODE", "Import mode must be skip, update, or fail")
	}
	if len(data) > maxImportBytes {
		return nil, shared.NewDomainError("IMPORT_FILE_TOO_LARGE",
			fmt.Sprintf("Import file cannot exceed %d bytes", maxImportBytes))
	}

	records, err := s.parse(data)
	if err != nil {
		return nil, err
	}
	if len(records) > maxImportRows {
		return nil, shared.NewDomainError("IMPORT_TOO_MANY_ROWS",
			fmt.Sprintf("Import file cannot exceed %d rows", maxImportRows))
	}

	validator := csvimport.NewRowValidator(productImportRules(), maxImportErrs)
	result := &ImportResult{TotalRows: len(records)}

	categories := newCategoryResolver(s.categoryRepo, theaterID)
	var touched bool
	for _, rec := range records {
		if !validator.Validate(rec) {
			result.Failed++
			continue
		}
		wrote, err := s.importRow(ctx, theaterID, rec, mode, categories, validator.Errors(), result)
		if err != nil {
			return nil, err
		}
		touched = touched || wrote
	}

	errs := validator.Errors()
	result.Errors = errs.Errors()
	result.ErrorsTruncated = errs.Truncated()

	if touched {
		s.menu.invalidate(ctx, theaterID)
	}

	s.logger.Info("product import finished",
		zap.String("theater_id", theaterID.String()),
		zap.String("mode", string(mode)),
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *ProductImportService) parse(data []byte) ([]*csvimport.Record, error) {
	reader, err := csvimport.FromBytes(data)
	if err != nil {
		return nil, shared.NewDomainError("IMPORT_INVALID_FILE", err.Error())
	}
	if err := reader.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("IMPORT_INVALID_FILE", err.Error())
	}
	if missing := reader.MissingHeaders(requiredImportColumns); len(missing) > 0 {
		return nil, shared.NewDomainError("IMPORT_MISSING_COLUMNS",
			fmt.Sprintf("Import file is missing required columns: %v", missing))
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("IMPORT_INVALID_FILE", err.Error())
	}
	return records, nil
}

// importRow applies one validated row. Returns true when the catalog
// was written. Repository failures other than not-found abort the run.
func (s *ProductImportService) importRow(
	ctx context.Context,
	theaterID uuid.UUID,
	rec *csvimport.Record,
	mode ImportMode,
	categories *categoryResolver,
	errs *csvimport.ErrorCollection,
	result *ImportResult,
) (bool, error) {
	categoryID, ok, err := categories.resolve(ctx, rec, errs)
	if err != nil {
		return false, err
	}
	if !ok {
		result.Failed++
		return false, nil
	}

	code := strings.ToUpper(rec.Get("code"))
	existing, err := s.productRepo.FindByCode(ctx, theaterID, code)
	switch {
	case err == nil:
		switch mode {
		case ImportModeSkip:
			result.Skipped++
			return false, nil
		case ImportModeFail:
			errs.AddValue(rec.Line, "code", csvimport.ErrCodeDuplicateCode,
				fmt.Sprintf("product %q already exists", code), code)
			result.Failed++
			return false, nil
		}
		if err := s.applyRow(existing, rec, categoryID); err != nil {
			errs.AddField(rec.Line, "", csvimport.ErrCodeRowFailed, err.Error())
			result.Failed++
			return false, nil
		}
		if err := s.productRepo.Update(ctx, existing); err != nil {
			return false, err
		}
		result.Updated++
		return true, nil

	case errors.Is(err, shared.ErrNotFound):
		product, buildErr := catalog.NewProduct(theaterID, code, rec.Get("name"), rec.Get("unit"))
		if buildErr != nil {
			errs.AddField(rec.Line, "", csvimport.ErrCodeRowFailed, buildErr.Error())
			result.Failed++
			return false, nil
		}
		if err := s.applyRow(product, rec, categoryID); err != nil {
			errs.AddField(rec.Line, "", csvimport.ErrCodeRowFailed, err.Error())
			result.Failed++
			return false, nil
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			return false, err
		}
		result.Created++
		return true, nil

	default:
		return false, err
	}
}

// applyRow copies the row's optional fields onto the product. The row
// has already passed validation, so parse failures here are defects.
func (s *ProductImportService) applyRow(product *catalog.Product, rec *csvimport.Record, categoryID *uuid.UUID) error {
	if err := product.Update(rec.Get("name"), rec.GetOrDefault("description", product.Description)); err != nil {
		return err
	}
	if categoryID != nil {
		product.SetCategory(categoryID)
	}

	price, err := decimal.NewFromString(rec.Get("price"))
	if err != nil {
		return err
	}
	costPrice := product.CostPrice
	if v := rec.Get("cost_price"); v != "" {
		if costPrice, err = decimal.NewFromString(v); err != nil {
			return err
		}
	}
	if err := product.SetPrices(price, costPrice); err != nil {
		return err
	}

	if v := rec.Get("min_threshold"); v != "" {
		threshold, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		if err := product.SetMinThreshold(threshold); err != nil {
			return err
		}
	}
	if v := rec.Get("shelf_life_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if err := product.SetShelfLife(days); err != nil {
			return err
		}
	}
	if v := rec.Get("is_vegetarian"); v != "" {
		veg, err := csvimport.ParseBool(v)
		if err != nil {
			return err
		}
		product.SetVegetarian(veg)
	}

	if strings.EqualFold(rec.GetOrDefault("status", "active"), "inactive") && product.IsActive() {
		return product.Deactivate()
	}
	return nil
}

func productImportRules() []csvimport.Rule {
	return []csvimport.Rule{
		csvimport.Field("code").Required().MaxLength(50).
			Pattern(`^[A-Za-z0-9_-]+$`, "letters, numbers, underscores, and hyphens").
			Unique().Build(),
		csvimport.Field("name").Required().MaxLength(200).Build(),
		csvimport.Field("unit").Required().MaxLength(20).Build(),
		csvimport.Field("price").Required().Decimal().Min(decimal.Zero).Build(),
		csvimport.Field("cost_price").Decimal().Min(decimal.Zero).Build(),
		csvimport.Field("min_threshold").Decimal().Min(decimal.Zero).Build(),
		csvimport.Field("shelf_life_days").Int().Min(decimal.Zero).Build(),
		csvimport.Field("is_vegetarian").Bool().Build(),
		csvimport.Field("category_code").MaxLength(50).Build(),
		csvimport.Field("status").OneOf("active", "inactive").Build(),
	}
}

// categoryResolver resolves category codes to IDs, memoizing lookups so
// a thousand rows of the same category hit the database once.
type categoryResolver struct {
	repo      catalog.CategoryRepository
	theaterID uuid.UUID
	cache     map[string]*uuid.UUID
}

func newCategoryResolver(repo catalog.CategoryRepository, theaterID uuid.UUID) *categoryResolver {
	return &categoryResolver{repo: repo, theaterID: theaterID, cache: make(map[string]*uuid.UUID)}
}

// resolve returns the category ID for the row's category_code, or nil
// when the column is empty. ok is false when the code is unknown.
func (r *categoryResolver) resolve(ctx context.Context, rec *csvimport.Record, errs *csvimport.ErrorCollection) (*uuid.UUID, bool, error) {
	code := strings.ToUpper(rec.Get("category_code"))
	if code == "" {
		return nil, true, nil
	}

	id, hit := r.cache[code]
	if !hit {
		category, err := r.repo.FindByCode(ctx, r.theaterID, code)
		switch {
		case err == nil:
			categoryID := category.ID
			id = &categoryID
		case errors.Is(err, shared.ErrNotFound):
			id = nil
		default:
			return nil, false, err
		}
		r.cache[code] = id
	}

	if id == nil {
		errs.AddValue(rec.Line, "category_code", csvimport.ErrCodeUnknownReference,
			fmt.Sprintf("category %q not found", code), code)
		return nil, false, nil
	}
	return id, true, nil
}
