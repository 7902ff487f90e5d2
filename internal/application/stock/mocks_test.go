package stock

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/stock"
)

// fakeStockRepo stores documents in memory and mirrors the version guard of
// the persistence layer: a save whose version is not exactly one past the
// last saved version loses the race.
type fakeStockRepo struct {
	docs          map[uuid.UUID]*stock.MonthlyStock
	savedVersions map[uuid.UUID]int
	conflictsLeft int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		docs:          make(map[uuid.UUID]*stock.MonthlyStock),
		savedVersions: make(map[uuid.UUID]int),
	}
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.MonthlyStock, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *fakeStockRepo) FindByIDForTheater(_ context.Context, theaterID, id uuid.UUID) (*stock.MonthlyStock, error) {
	doc, ok := r.docs[id]
	if !ok || doc.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *fakeStockRepo) FindByMonth(_ context.Context, theaterID, productID uuid.UUID, year, month int) (*stock.MonthlyStock, error) {
	for _, doc := range r.docs {
		if doc.TheaterID == theaterID && doc.ProductID == productID && doc.Year == year && doc.Month == month {
			return doc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindLatestBefore(_ context.Context, theaterID, productID uuid.UUID, year, month int) (*stock.MonthlyStock, error) {
	var latest *stock.MonthlyStock
	for _, doc := range r.docs {
		if doc.TheaterID != theaterID || doc.ProductID != productID || !monthBefore(doc.Year, doc.Month, year, month) {
			continue
		}
		if latest == nil || monthBefore(latest.Year, latest.Month, doc.Year, doc.Month) {
			latest = doc
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *fakeStockRepo) FindFollowingMonths(_ context.Context, theaterID, productID uuid.UUID, year, month int) ([]stock.MonthlyStock, error) {
	var out []stock.MonthlyStock
	for _, doc := range r.docs {
		if doc.TheaterID == theaterID && doc.ProductID == productID && monthBefore(year, month, doc.Year, doc.Month) {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return monthBefore(out[i].Year, out[i].Month, out[j].Year, out[j].Month)
	})
	return out, nil
}

func (r *fakeStockRepo) FindAllForMonth(_ context.Context, theaterID uuid.UUID, year, month int, _ shared.Filter) ([]stock.MonthlyStock, error) {
	return r.monthDocs(theaterID, year, month), nil
}

func (r *fakeStockRepo) CountForMonth(_ context.Context, theaterID uuid.UUID, year, month int) (int64, error) {
	return int64(len(r.monthDocs(theaterID, year, month))), nil
}

func (r *fakeStockRepo) FindAllForTheater(_ context.Context, theaterID uuid.UUID) ([]stock.MonthlyStock, error) {
	out := make([]stock.MonthlyStock, 0)
	for _, doc := range r.docs {
		if doc.TheaterID == theaterID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID.String() < out[j].ProductID.String()
		}
		return monthBefore(out[i].Year, out[i].Month, out[j].Year, out[j].Month)
	})
	return out, nil
}

func (r *fakeStockRepo) Save(_ context.Context, doc *stock.MonthlyStock) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return shared.ErrConcurrencyConflict
	}
	if prev, ok := r.savedVersions[doc.ID]; ok && doc.Version != prev+1 {
		return shared.ErrConcurrencyConflict
	}
	r.savedVersions[doc.ID] = doc.Version
	r.docs[doc.ID] = doc
	doc.MarkVersionSaved()
	return nil
}

func (r *fakeStockRepo) Delete(_ context.Context, theaterID, id uuid.UUID) error {
	doc, ok := r.docs[id]
	if !ok || doc.TheaterID != theaterID {
		return shared.ErrNotFound
	}
	delete(r.docs, id)
	delete(r.savedVersions, id)
	return nil
}

func (r *fakeStockRepo) monthDocs(theaterID uuid.UUID, year, month int) []stock.MonthlyStock {
	out := make([]stock.MonthlyStock, 0)
	for _, doc := range r.docs {
		if doc.TheaterID == theaterID && doc.Year == year && doc.Month == month {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

func monthBefore(y1, m1, y2, m2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}

var _ stock.MonthlyStockRepository = (*fakeStockRepo)(nil)

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
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
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

var _ catalog.ProductRepository = (*fakeProductRepo)(nil)

// recordingMailer captures sent mails for assertions
type recordingMailer struct {
	sent []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
