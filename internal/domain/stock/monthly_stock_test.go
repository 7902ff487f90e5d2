package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestDoc(t *testing.T, opening string) *MonthlyStock {
	t.Helper()
	doc, err := NewMonthlyStock(uuid.New(), uuid.New(), 2026, 3, dec(opening))
	require.NoError(t, err)
	return doc
}

func TestNewMonthlyStock(t *testing.T) {
	theaterID := uuid.New()
	productID := uuid.New()

	t.Run("creates document seeded with opening balance", func(t *testing.T) {
		doc, err := NewMonthlyStock(theaterID, productID, 2026, 3, dec("12"))
		require.NoError(t, err)
		require.NotNil(t, doc)

		assert.Equal(t, theaterID, doc.TheaterID)
		assert.Equal(t, productID, doc.ProductID)
		assert.Equal(t, 2026, doc.Year)
		assert.Equal(t, 3, doc.Month)
		assert.True(t, doc.OldStock.Equal(dec("12")))
		assert.True(t, doc.ClosingBalance.Equal(dec("12")))
		assert.Empty(t, doc.Entries)
	})

	t.Run("publishes MonthlyStockCreated event", func(t *testing.T) {
		doc, err := NewMonthlyStock(theaterID, productID, 2026, 3, decimal.Zero)
		require.NoError(t, err)

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMonthlyStockCreated, events[0].EventType())
	})

	t.Run("clamps negative opening balance to zero", func(t *testing.T) {
		doc, err := NewMonthlyStock(theaterID, productID, 2026, 3, dec("-5"))
		require.NoError(t, err)
		assert.True(t, doc.OldStock.IsZero())
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		_, err := NewMonthlyStock(theaterID, productID, 2026, 13, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewMonthlyStock(theaterID, uuid.Nil, 2026, 3, decimal.Zero)
		require.Error(t, err)
	})
}

func TestAddEntry(t *testing.T) {
	t.Run("running balance threads through entries", func(t *testing.T) {
		doc := newTestDoc(t, "10")

		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 2), Type: EntryTypeAdded, Received: dec("40")})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 5), Type: EntryTypeSold, Sales: dec("15")})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 9), Type: EntryTypeDamaged, Damaged: dec("3")})
		require.NoError(t, err)

		require.Len(t, doc.Entries, 3)
		assert.True(t, doc.Entries[0].OldStock.Equal(dec("10")))
		assert.True(t, doc.Entries[0].Balance.Equal(dec("50")))
		assert.True(t, doc.Entries[1].OldStock.Equal(dec("50")))
		assert.True(t, doc.Entries[1].Balance.Equal(dec("35")))
		assert.True(t, doc.Entries[2].OldStock.Equal(dec("35")))
		assert.True(t, doc.Entries[2].Balance.Equal(dec("32")))

		assert.True(t, doc.ClosingBalance.Equal(dec("32")))
		assert.True(t, doc.TotalReceived.Equal(dec("40")))
		assert.True(t, doc.TotalSales.Equal(dec("15")))
		assert.True(t, doc.TotalDamaged.Equal(dec("3")))
	})

	t.Run("closing balance equals last entry balance", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("7")})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 20), Type: EntryTypeSold, Sales: dec("2")})
		require.NoError(t, err)

		last := doc.Entries[len(doc.Entries)-1]
		assert.True(t, doc.ClosingBalance.Equal(last.Balance))
	})

	t.Run("out-of-order insertion is resorted by date", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 20), Type: EntryTypeSold, Sales: dec("5")})
		require.NoError(t, err)
		// Back-dated receipt lands before the sale after recalculation
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 3), Type: EntryTypeAdded, Received: dec("8")})
		require.NoError(t, err)

		assert.Equal(t, EntryTypeAdded, doc.Entries[0].Type)
		assert.Equal(t, EntryTypeSold, doc.Entries[1].Type)
		assert.True(t, doc.Entries[1].OldStock.Equal(dec("8")))
		assert.True(t, doc.ClosingBalance.Equal(dec("3")))
	})

	t.Run("same-date entries keep insertion order", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 10), Type: EntryTypeAdded, Received: dec("4")})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 10), Type: EntryTypeSold, Sales: dec("4")})
		require.NoError(t, err)

		assert.Equal(t, EntryTypeAdded, doc.Entries[0].Type)
		assert.Equal(t, EntryTypeSold, doc.Entries[1].Type)
		assert.True(t, doc.ClosingBalance.IsZero())
	})

	t.Run("over-deduction clamps at zero instead of erroring", func(t *testing.T) {
		doc := newTestDoc(t, "5")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 4), Type: EntryTypeSold, Sales: dec("9")})
		require.NoError(t, err)

		assert.True(t, doc.Entries[0].Balance.IsZero())
		assert.True(t, doc.ClosingBalance.IsZero())
	})

	t.Run("rejects entry outside the month window", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 4, 1), Type: EntryTypeAdded, Received: dec("1")})
		require.Error(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 2, 28), Type: EntryTypeAdded, Received: dec("1")})
		require.Error(t, err)
	})

	t.Run("rejects negative and all-zero quantities", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("-1")})
		require.Error(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded})
		require.Error(t, err)
	})

	t.Run("rejects unknown entry type", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: "BORROWED", Received: dec("1")})
		require.Error(t, err)
	})

	t.Run("publishes StockEntryAdded event", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		doc.ClearDomainEvents()
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("1")})
		require.NoError(t, err)

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockEntryAdded, events[0].EventType())
	})
}

func TestUpdateEntry(t *testing.T) {
	doc := newTestDoc(t, "10")
	entry, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 5), Type: EntryTypeSold, Sales: dec("4")})
	require.NoError(t, err)
	entryID := entry.ID

	t.Run("recalculates after edit", func(t *testing.T) {
		err := doc.UpdateEntry(entryID, EntryInput{EntryDate: day(2026, 3, 5), Type: EntryTypeSold, Sales: dec("7")})
		require.NoError(t, err)
		assert.True(t, doc.ClosingBalance.Equal(dec("3")))
		assert.True(t, doc.TotalSales.Equal(dec("7")))
	})

	t.Run("moving the date reorders the ledger", func(t *testing.T) {
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 10), Type: EntryTypeAdded, Received: dec("20")})
		require.NoError(t, err)

		// Move the sale after the receipt; the clamp no longer applies
		err = doc.UpdateEntry(entryID, EntryInput{EntryDate: day(2026, 3, 15), Type: EntryTypeSold, Sales: dec("7")})
		require.NoError(t, err)

		assert.Equal(t, EntryTypeAdded, doc.Entries[0].Type)
		assert.True(t, doc.ClosingBalance.Equal(dec("23")))
	})

	t.Run("unknown entry id fails", func(t *testing.T) {
		err := doc.UpdateEntry(uuid.New(), EntryInput{EntryDate: day(2026, 3, 5), Type: EntryTypeSold, Sales: dec("1")})
		require.Error(t, err)
	})
}

func TestRemoveEntry(t *testing.T) {
	doc := newTestDoc(t, "0")
	add, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("10")})
	require.NoError(t, err)
	_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 8), Type: EntryTypeSold, Sales: dec("6")})
	require.NoError(t, err)
	require.True(t, doc.ClosingBalance.Equal(dec("4")))

	t.Run("removal recalculates remaining entries", func(t *testing.T) {
		err := doc.RemoveEntry(add.ID)
		require.NoError(t, err)

		require.Len(t, doc.Entries, 1)
		// Only the sale remains; it clamps against a zero opening balance
		assert.True(t, doc.ClosingBalance.IsZero())
	})

	t.Run("unknown entry id fails", func(t *testing.T) {
		err := doc.RemoveEntry(uuid.New())
		require.Error(t, err)
	})
}

func TestRecalculateIdempotent(t *testing.T) {
	doc := newTestDoc(t, "25")
	_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 2), Type: EntryTypeAdded, Received: dec("10"), BatchNumber: "B1"})
	require.NoError(t, err)
	_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 14), Type: EntryTypeSold, Sales: dec("18")})
	require.NoError(t, err)
	_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 27), Type: EntryTypeExpired, Expired: dec("2")})
	require.NoError(t, err)

	closing := doc.ClosingBalance
	entries := make([]StockEntry, len(doc.Entries))
	copy(entries, doc.Entries)

	doc.Recalculate()

	assert.True(t, doc.ClosingBalance.Equal(closing))
	for i := range entries {
		assert.True(t, doc.Entries[i].OldStock.Equal(entries[i].OldStock))
		assert.True(t, doc.Entries[i].Balance.Equal(entries[i].Balance))
	}
}

func TestSeedOpeningBalance(t *testing.T) {
	doc := newTestDoc(t, "0")
	_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 3), Type: EntryTypeSold, Sales: dec("5")})
	require.NoError(t, err)
	require.True(t, doc.ClosingBalance.IsZero())

	t.Run("reseeding lifts the clamp", func(t *testing.T) {
		doc.SeedOpeningBalance(dec("30"))
		assert.True(t, doc.OldStock.Equal(dec("30")))
		assert.True(t, doc.ClosingBalance.Equal(dec("25")))
	})

	t.Run("same balance is a no-op", func(t *testing.T) {
		version := doc.GetVersion()
		doc.SeedOpeningBalance(dec("30"))
		assert.Equal(t, version, doc.GetVersion())
	})
}

func TestPendingExpiry(t *testing.T) {
	now := day(2026, 3, 20)

	t.Run("expired batch remainder is reported", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		expiry := day(2026, 3, 10)
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("12"), BatchNumber: "B1", ExpiryDate: &expiry})
		require.NoError(t, err)

		lots := doc.PendingExpiry(now)
		require.Len(t, lots, 1)
		assert.Equal(t, "B1", lots[0].BatchNumber)
		assert.True(t, lots[0].Remaining.Equal(dec("12")))
	})

	t.Run("written-off quantity reduces the remainder", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		expiry := day(2026, 3, 10)
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("12"), BatchNumber: "B1", ExpiryDate: &expiry})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 11), Type: EntryTypeExpired, Expired: dec("9"), BatchNumber: "B1"})
		require.NoError(t, err)

		lots := doc.PendingExpiry(now)
		require.Len(t, lots, 1)
		assert.True(t, lots[0].Remaining.Equal(dec("3")))
	})

	t.Run("not yet expired batches are ignored", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		expiry := day(2026, 3, 25)
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("12"), BatchNumber: "B2", ExpiryDate: &expiry})
		require.NoError(t, err)

		assert.Empty(t, doc.PendingExpiry(now))
	})

	t.Run("remainder never exceeds closing balance", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		expiry := day(2026, 3, 10)
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("12"), BatchNumber: "B1", ExpiryDate: &expiry})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 5), Type: EntryTypeSold, Sales: dec("10")})
		require.NoError(t, err)

		lots := doc.PendingExpiry(now)
		require.Len(t, lots, 1)
		assert.True(t, lots[0].Remaining.Equal(dec("2")))
	})

	t.Run("earliest expiry claims the balance first", func(t *testing.T) {
		doc := newTestDoc(t, "0")
		soon := day(2026, 3, 24)
		past := day(2026, 3, 10)
		_, err := doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("40"), BatchNumber: "B-SOON", ExpiryDate: &soon})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 2), Type: EntryTypeAdded, Received: dec("40"), BatchNumber: "B-PAST", ExpiryDate: &past})
		require.NoError(t, err)
		_, err = doc.AddEntry(EntryInput{EntryDate: day(2026, 3, 15), Type: EntryTypeSold, Sales: dec("50")})
		require.NoError(t, err)

		// 30 on hand; the batch already past its date must not be
		// shortchanged by the one that merely expires within the horizon
		lots := doc.PendingExpiry(day(2026, 3, 28))
		require.Len(t, lots, 1)
		assert.Equal(t, "B-PAST", lots[0].BatchNumber)
		assert.True(t, lots[0].Remaining.Equal(dec("30")))
	})
}

func TestPendingExpiryAcross(t *testing.T) {
	theaterID := uuid.New()
	productID := uuid.New()

	march, err := NewMonthlyStock(theaterID, productID, 2026, 3, dec("0"))
	require.NoError(t, err)
	expiry := day(2026, 4, 3)
	_, err = march.AddEntry(EntryInput{EntryDate: day(2026, 3, 1), Type: EntryTypeAdded, Received: dec("50"), BatchNumber: "B1", ExpiryDate: &expiry})
	require.NoError(t, err)

	april, err := NewMonthlyStock(theaterID, productID, 2026, 4, march.ClosingBalance)
	require.NoError(t, err)
	_, err = april.AddEntry(EntryInput{EntryDate: day(2026, 4, 10), Type: EntryTypeSold, Sales: dec("5")})
	require.NoError(t, err)

	docs := []MonthlyStock{*march, *april}

	t.Run("batch from an earlier month is reported", func(t *testing.T) {
		lots := PendingExpiryAcross(docs, day(2026, 4, 20))
		require.Len(t, lots, 1)
		assert.Equal(t, "B1", lots[0].BatchNumber)
		assert.True(t, lots[0].Remaining.Equal(dec("45")), "remaining %s", lots[0].Remaining)
	})

	t.Run("write-off in a later month settles the batch", func(t *testing.T) {
		_, err := april.AddEntry(EntryInput{EntryDate: day(2026, 4, 20), Type: EntryTypeExpired, Expired: dec("45"), BatchNumber: "B1"})
		require.NoError(t, err)

		lots := PendingExpiryAcross([]MonthlyStock{*march, *april}, day(2026, 4, 21))
		assert.Empty(t, lots)
	})
}
