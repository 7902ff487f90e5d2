package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*ordering.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *ordering.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *ordering.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return shared.ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, theaterID uuid.UUID, orderNumber string) (*ordering.Order, error) {
	for _, order := range r.orders {
		if order.TheaterID == theaterID && order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, theaterID uuid.UUID, filter ordering.OrderFilter) ([]*ordering.Order, int64, error) {
	var out []*ordering.Order
	for _, order := range r.orders {
		if order.TheaterID != theaterID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		out = append(out, order)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindOpenByTable(_ context.Context, theaterID, tableID uuid.UUID) ([]*ordering.Order, error) {
	var out []*ordering.Order
	for _, order := range r.orders {
		if order.TheaterID == theaterID && order.TableID != nil && *order.TableID == tableID && !order.IsTerminal() {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) CountByDate(_ context.Context, theaterID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	day := date.Format("20060102")
	for _, order := range r.orders {
		if order.TheaterID == theaterID && order.CreatedAt.In(date.Location()).Format("20060102") == day {
			count++
		}
	}
	return count, nil
}

type fakeTableRepo struct {
	tables map[uuid.UUID]*ordering.DiningTable
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[uuid.UUID]*ordering.DiningTable)}
}

func (r *fakeTableRepo) Create(_ context.Context, table *ordering.DiningTable) error {
	r.tables[table.ID] = table
	return nil
}

func (r *fakeTableRepo) Update(_ context.Context, table *ordering.DiningTable) error {
	if _, ok := r.tables[table.ID]; !ok {
		return shared.ErrNotFound
	}
	r.tables[table.ID] = table
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.tables[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tables, id)
	return nil
}

func (r *fakeTableRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.DiningTable, error) {
	table, ok := r.tables[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return table, nil
}

func (r *fakeTableRepo) FindByQRToken(_ context.Context, token string) (*ordering.DiningTable, error) {
	for _, table := range r.tables {
		if table.QRToken == token {
			return table, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTableRepo) FindByNumber(_ context.Context, theaterID uuid.UUID, number string) (*ordering.DiningTable, error) {
	for _, table := range r.tables {
		if table.TheaterID == theaterID && table.Number == number {
			return table, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTableRepo) FindAll(_ context.Context, theaterID uuid.UUID) ([]*ordering.DiningTable, error) {
	var out []*ordering.DiningTable
	for _, table := range r.tables {
		if table.TheaterID == theaterID {
			out = append(out, table)
		}
	}
	return out, nil
}

func (r *fakeTableRepo) ExistsByNumber(ctx context.Context, theaterID uuid.UUID, number string) (bool, error) {
	_, err := r.FindByNumber(ctx, theaterID, number)
	return err == nil, nil
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

type fakeTheaterRepo struct {
	theaters map[uuid.UUID]*identity.Theater
}

func newFakeTheaterRepo() *fakeTheaterRepo {
	return &fakeTheaterRepo{theaters: make(map[uuid.UUID]*identity.Theater)}
}

func (r *fakeTheaterRepo) Create(_ context.Context, theater *identity.Theater) error {
	r.theaters[theater.ID] = theater
	return nil
}

func (r *fakeTheaterRepo) Update(_ context.Context, theater *identity.Theater) error {
	r.theaters[theater.ID] = theater
	return nil
}

func (r *fakeTheaterRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.theaters, id)
	return nil
}

func (r *fakeTheaterRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Theater, error) {
	theater, ok := r.theaters[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return theater, nil
}

func (r *fakeTheaterRepo) FindByCode(_ context.Context, code string) (*identity.Theater, error) {
	for _, theater := range r.theaters {
		if theater.Code == code {
			return theater, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTheaterRepo) FindAll(_ context.Context, _ identity.TheaterFilter) ([]*identity.Theater, int64, error) {
	var out []*identity.Theater
	for _, theater := range r.theaters {
		out = append(out, theater)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTheaterRepo) FindActive(_ context.Context) ([]*identity.Theater, error) {
	var out []*identity.Theater
	for _, theater := range r.theaters {
		if theater.IsActive() {
			out = append(out, theater)
		}
	}
	return out, nil
}

func (r *fakeTheaterRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

// recordingBus captures published events for assertions.
type recordingBus struct {
	events []shared.DomainEvent
}

func (b *recordingBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.events = append(b.events, events...)
	return nil
}

func (b *recordingBus) Subscribe(_ shared.EventHandler, _ ...string) {}
func (b *recordingBus) Unsubscribe(_ shared.EventHandler)           {}
func (b *recordingBus) Start(_ context.Context) error               { return nil }
func (b *recordingBus) Stop(_ context.Context) error                { return nil }

func (b *recordingBus) byType(eventType string) []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, event := range b.events {
		if event.EventType() == eventType {
			out = append(out, event)
		}
	}
	return out
}

var (
	_ ordering.OrderRepository       = (*fakeOrderRepo)(nil)
	_ ordering.DiningTableRepository = (*fakeTableRepo)(nil)
	_ catalog.ProductRepository      = (*fakeProductRepo)(nil)
	_ identity.TheaterRepository     = (*fakeTheaterRepo)(nil)
	_ shared.EventBus                = (*recordingBus)(nil)
)
