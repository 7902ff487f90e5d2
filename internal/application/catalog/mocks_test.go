package catalog

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
	products   *fakeProductRepo
}

func newFakeCategoryRepo(products *fakeProductRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: make(map[uuid.UUID]*catalog.Category),
		products:   products,
	}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *catalog.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *catalog.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return shared.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) FindByCode(_ context.Context, theaterID uuid.UUID, code string) (*catalog.Category, error) {
	for _, category := range r.categories {
		if category.TheaterID == theaterID && category.Code == code {
			return category, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, theaterID uuid.UUID) ([]*catalog.Category, error) {
	return r.list(theaterID, false), nil
}

func (r *fakeCategoryRepo) FindActive(_ context.Context, theaterID uuid.UUID) ([]*catalog.Category, error) {
	return r.list(theaterID, true), nil
}

func (r *fakeCategoryRepo) list(theaterID uuid.UUID, activeOnly bool) []*catalog.Category {
	var out []*catalog.Category
	for _, category := range r.categories {
		if category.TheaterID != theaterID {
			continue
		}
		if activeOnly && !category.IsActive() {
			continue
		}
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *fakeCategoryRepo) ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, theaterID, code)
	return err == nil, nil
}

func (r *fakeCategoryRepo) CountProducts(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, product := range r.products.products {
		if product.CategoryID != nil && *product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *catalog.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return shared.ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindByIDForTheater(_ context.Context, theaterID, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok || product.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindByCode(_ context.Context, theaterID uuid.UUID, code string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.TheaterID == theaterID && product.Code == code {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, theaterID uuid.UUID, _ catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	var out []*catalog.Product
	for _, product := range r.products {
		if product.TheaterID == theaterID {
			out = append(out, product)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindSellable(_ context.Context, theaterID uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, product := range r.products {
		if product.TheaterID == theaterID && product.IsSellable() {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *fakeProductRepo) FindByCategory(_ context.Context, theaterID, categoryID uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, product := range r.products {
		if product.TheaterID == theaterID && product.CategoryID != nil && *product.CategoryID == categoryID {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error) {
	_, err := r.FindByCode(ctx, theaterID, code)
	return err == nil, nil
}

var (
	_ catalog.CategoryRepository = (*fakeCategoryRepo)(nil)
	_ catalog.ProductRepository  = (*fakeProductRepo)(nil)
)
