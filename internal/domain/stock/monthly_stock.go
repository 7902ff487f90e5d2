package stock

import (
	"fmt"
	"sort"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger line in the monthly stock document
type EntryType string

const (
	EntryTypeAdded      EntryType = "ADDED"
	EntryTypeSold       EntryType = "SOLD"
	EntryTypeExpired    EntryType = "EXPIRED"
	EntryTypeDamaged    EntryType = "DAMAGED"
	EntryTypeReturned   EntryType = "RETURNED"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
)

// IsValid reports whether the entry type is one of the known ledger types
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeAdded, EntryTypeSold, EntryTypeExpired, EntryTypeDamaged, EntryTypeReturned, EntryTypeAdjustment:
		return true
	}
	return false
}

// StockEntry is one ledger line of a monthly stock document.
// OldStock and Balance are derived by Recalculate and must not be set by callers.
type StockEntry struct {
	shared.BaseEntity
	MonthlyStockID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryDate      time.Time       `gorm:"type:date;not null"`
	Type           EntryType       `gorm:"type:varchar(20);not null"`
	Received       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // stock coming in (ADDED/RETURNED/positive ADJUSTMENT)
	Sales          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Expired        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Damaged        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNumber    string          `gorm:"type:varchar(50)"`
	ExpiryDate     *time.Time      `gorm:"type:date"`
	Note           string          `gorm:"type:varchar(500)"`
	Position       int             `gorm:"not null;default:0"` // insertion order, tiebreaker for same-date entries
	OldStock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NetMovement returns the signed quantity change this entry applies to the running balance
func (e *StockEntry) NetMovement() decimal.Decimal {
	return e.Received.Sub(e.Sales).Sub(e.Expired).Sub(e.Damaged)
}

// MonthlyStock is the per-theater, per-product, per-month stock ledger document.
// It is the aggregate root for all stock operations; every mutation triggers a
// full balance recalculation over the entry list.
type MonthlyStock struct {
	shared.TheaterAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_stock_doc,priority:2"`
	Year           int             `gorm:"not null;uniqueIndex:idx_monthly_stock_doc,priority:3"`
	Month          int             `gorm:"not null;uniqueIndex:idx_monthly_stock_doc,priority:4"`
	OldStock       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // opening balance carried from previous month
	TotalReceived  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalSales     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalExpired   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDamaged   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Entries []StockEntry `gorm:"foreignKey:MonthlyStockID;references:ID"`
}

// TableName returns the table name for GORM
func (MonthlyStock) TableName() string {
	return "monthly_stocks"
}

// NewMonthlyStock creates a new monthly stock document seeded with an opening balance
func NewMonthlyStock(theaterID, productID uuid.UUID, year, month int, openingBalance decimal.Decimal) (*MonthlyStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_MONTH", fmt.Sprintf("Month must be between 1 and 12, got %d", month))
	}
	if year < 2000 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_YEAR", fmt.Sprintf("Year %d is out of range", year))
	}
	if openingBalance.IsNegative() {
		openingBalance = decimal.Zero
	}

	doc := &MonthlyStock{
		TheaterAggregateRoot: shared.NewTheaterAggregateRoot(theaterID),
		ProductID:            productID,
		Year:                 year,
		Month:                month,
		OldStock:             openingBalance,
		ClosingBalance:       openingBalance,
		Entries:              make([]StockEntry, 0),
	}

	doc.AddDomainEvent(NewMonthlyStockCreatedEvent(doc))

	return doc, nil
}

// EntryInput carries the caller-supplied fields of a ledger line
type EntryInput struct {
	EntryDate   time.Time
	Type        EntryType
	Received    decimal.Decimal
	Sales       decimal.Decimal
	Expired     decimal.Decimal
	Damaged     decimal.Decimal
	BatchNumber string
	ExpiryDate  *time.Time
	Note        string
}

// validate checks the input against the document's month window
func (m *MonthlyStock) validateInput(input EntryInput) error {
	if !input.Type.IsValid() {
		return shared.NewDomainError("INVALID_ENTRY_TYPE", fmt.Sprintf("Unknown stock entry type %q", input.Type))
	}
	if input.Received.IsNegative() || input.Sales.IsNegative() || input.Expired.IsNegative() || input.Damaged.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock entry quantities cannot be negative")
	}
	if input.Received.IsZero() && input.Sales.IsZero() && input.Expired.IsZero() && input.Damaged.IsZero() {
		return shared.NewDomainError("EMPTY_ENTRY", "Stock entry must move at least one quantity")
	}
	start, end := m.MonthBounds()
	if input.EntryDate.Before(start) || !input.EntryDate.Before(end) {
		return shared.NewDomainError("DATE_OUT_OF_MONTH",
			fmt.Sprintf("Entry date %s is outside %04d-%02d", input.EntryDate.Format("2006-01-02"), m.Year, m.Month))
	}
	return nil
}

// MonthBounds returns the [start, end) window of the document's month in UTC
func (m *MonthlyStock) MonthBounds() (time.Time, time.Time) {
	start := time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// AddEntry appends a ledger line and recalculates all balances
func (m *MonthlyStock) AddEntry(input EntryInput) (*StockEntry, error) {
	if err := m.validateInput(input); err != nil {
		return nil, err
	}

	entry := StockEntry{
		BaseEntity:     shared.NewBaseEntity(),
		MonthlyStockID: m.ID,
		EntryDate:      input.EntryDate,
		Type:           input.Type,
		Received:       input.Received,
		Sales:          input.Sales,
		Expired:        input.Expired,
		Damaged:        input.Damaged,
		BatchNumber:    input.BatchNumber,
		ExpiryDate:     input.ExpiryDate,
		Note:           input.Note,
		Position:       m.nextPosition(),
	}
	m.Entries = append(m.Entries, entry)

	m.Recalculate()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	added := &m.Entries[len(m.Entries)-1]
	m.AddDomainEvent(NewStockEntryAddedEvent(m, added))

	return added, nil
}

// UpdateEntry replaces the caller-supplied fields of an existing ledger line
// and recalculates all balances
func (m *MonthlyStock) UpdateEntry(entryID uuid.UUID, input EntryInput) error {
	if err := m.validateInput(input); err != nil {
		return err
	}

	idx := m.entryIndex(entryID)
	if idx < 0 {
		return shared.NewDomainError("ENTRY_NOT_FOUND", "Stock entry not found in this month")
	}

	e := &m.Entries[idx]
	e.EntryDate = input.EntryDate
	e.Type = input.Type
	e.Received = input.Received
	e.Sales = input.Sales
	e.Expired = input.Expired
	e.Damaged = input.Damaged
	e.BatchNumber = input.BatchNumber
	e.ExpiryDate = input.ExpiryDate
	e.Note = input.Note
	e.UpdatedAt = time.Now()

	m.Recalculate()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewStockEntryUpdatedEvent(m, e))

	return nil
}

// RemoveEntry deletes a ledger line and recalculates all balances
func (m *MonthlyStock) RemoveEntry(entryID uuid.UUID) error {
	idx := m.entryIndex(entryID)
	if idx < 0 {
		return shared.NewDomainError("ENTRY_NOT_FOUND", "Stock entry not found in this month")
	}

	removed := m.Entries[idx]
	m.Entries = append(m.Entries[:idx], m.Entries[idx+1:]...)

	m.Recalculate()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewStockEntryRemovedEvent(m, &removed))

	return nil
}

// SeedOpeningBalance resets the opening balance (carry-forward from the
// previous month's closing balance) and recalculates
func (m *MonthlyStock) SeedOpeningBalance(openingBalance decimal.Decimal) {
	if openingBalance.IsNegative() {
		openingBalance = decimal.Zero
	}
	if m.OldStock.Equal(openingBalance) {
		return
	}
	m.OldStock = openingBalance
	m.Recalculate()
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// Recalculate walks the entries in date order carrying a running balance.
// Balances are clamped at zero rather than going negative; over-deduction is
// absorbed, not raised as an error. Running it twice on an unchanged document
// is a no-op.
func (m *MonthlyStock) Recalculate() {
	m.sortEntries()

	running := m.OldStock
	totalReceived := decimal.Zero
	totalSales := decimal.Zero
	totalExpired := decimal.Zero
	totalDamaged := decimal.Zero

	for i := range m.Entries {
		e := &m.Entries[i]
		e.OldStock = running

		balance := running.Add(e.NetMovement())
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		e.Balance = balance
		running = balance

		totalReceived = totalReceived.Add(e.Received)
		totalSales = totalSales.Add(e.Sales)
		totalExpired = totalExpired.Add(e.Expired)
		totalDamaged = totalDamaged.Add(e.Damaged)
	}

	m.TotalReceived = totalReceived
	m.TotalSales = totalSales
	m.TotalExpired = totalExpired
	m.TotalDamaged = totalDamaged
	m.ClosingBalance = running
}

// sortEntries orders entries by date, with insertion order as tiebreaker
func (m *MonthlyStock) sortEntries() {
	sort.SliceStable(m.Entries, func(i, j int) bool {
		if m.Entries[i].EntryDate.Equal(m.Entries[j].EntryDate) {
			return m.Entries[i].Position < m.Entries[j].Position
		}
		return m.Entries[i].EntryDate.Before(m.Entries[j].EntryDate)
	})
}

func (m *MonthlyStock) entryIndex(entryID uuid.UUID) int {
	for i := range m.Entries {
		if m.Entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

func (m *MonthlyStock) nextPosition() int {
	next := 0
	for i := range m.Entries {
		if m.Entries[i].Position >= next {
			next = m.Entries[i].Position + 1
		}
	}
	return next
}

// ExpiredLot describes stock that has passed its expiry date but has not yet
// been written off with an EXPIRED entry
type ExpiredLot struct {
	BatchNumber string
	ExpiryDate  time.Time
	Remaining   decimal.Decimal
}

// PendingExpiry returns, per batch, the quantity received past its expiry date
// minus what has already been written off, looking only at this document's
// own entries. Expiration is evaluated against the supplied wall-clock date,
// not stored as a state transition.
func (m *MonthlyStock) PendingExpiry(asOf time.Time) []ExpiredLot {
	return PendingExpiryAcross([]MonthlyStock{*m}, asOf)
}

// PendingExpiryAcross aggregates batch expiry across a product's monthly
// documents in ascending month order: ADDED and RETURNED entries of every
// month contribute to a batch, EXPIRED entries of every month offset it, no
// matter which month the write-off was recorded in. The combined remainder
// never exceeds the latest document's closing balance, and batches with the
// earliest expiry date claim that balance first, so stock already past its
// date is never shortchanged by a batch that is merely expiring soon.
func PendingExpiryAcross(docs []MonthlyStock, asOf time.Time) []ExpiredLot {
	received := make(map[string]decimal.Decimal)
	writtenOff := make(map[string]decimal.Decimal)
	expiry := make(map[string]time.Time)
	order := make([]string, 0)

	for d := range docs {
		for i := range docs[d].Entries {
			e := &docs[d].Entries[i]
			switch e.Type {
			case EntryTypeAdded, EntryTypeReturned:
				if e.ExpiryDate == nil || !e.ExpiryDate.Before(asOf) {
					continue
				}
				key := e.BatchNumber
				if _, seen := received[key]; !seen {
					order = append(order, key)
					expiry[key] = *e.ExpiryDate
				}
				received[key] = received[key].Add(e.Received)
				if e.ExpiryDate.Before(expiry[key]) {
					expiry[key] = *e.ExpiryDate
				}
			case EntryTypeExpired:
				writtenOff[e.BatchNumber] = writtenOff[e.BatchNumber].Add(e.Expired)
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return expiry[order[i]].Before(expiry[order[j]])
	})

	available := decimal.Zero
	if len(docs) > 0 {
		available = docs[len(docs)-1].ClosingBalance
	}
	lots := make([]ExpiredLot, 0)
	for _, key := range order {
		remaining := received[key].Sub(writtenOff[key])
		if remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if remaining.GreaterThan(available) {
			remaining = available
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		available = available.Sub(remaining)
		lots = append(lots, ExpiredLot{
			BatchNumber: key,
			ExpiryDate:  expiry[key],
			Remaining:   remaining,
		})
	}
	return lots
}

// HasEntries reports whether any ledger lines exist
func (m *MonthlyStock) HasEntries() bool {
	return len(m.Entries) > 0
}
