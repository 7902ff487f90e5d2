package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/stock"
	"github.com/canteen/backend/internal/infrastructure/mail"
	"github.com/canteen/backend/internal/infrastructure/scheduler"
)

// AlertService runs the daily stock jobs for one theater: it writes off
// batches past their expiry date and mails a summary of low-stock products,
// write-offs, and batches expiring within the warning window. Which of the
// two alert kinds run is controlled per theater.
type AlertService struct {
	stocks            *StockService
	mailer            mail.Mailer
	expiryWarningDays int
	logger            *zap.Logger

	now func() time.Time
}

// NewAlertService creates a new alert service
func NewAlertService(stocks *StockService, mailer mail.Mailer, expiryWarningDays int, logger *zap.Logger) *AlertService {
	return &AlertService{
		stocks:            stocks,
		mailer:            mailer,
		expiryWarningDays: expiryWarningDays,
		logger:            logger,
		now:               time.Now,
	}
}

var _ scheduler.AlertRunner = (*AlertService)(nil)

type lowStockLine struct {
	productCode string
	productName string
	balance     string
	threshold   string
}

type expiryLine struct {
	productCode string
	productName string
	batchNumber string
	expiryDate  time.Time
	quantity    string
}

// RunDailyAlerts executes the stock jobs for one theater
func (s *AlertService) RunDailyAlerts(ctx context.Context, theater *identity.Theater) error {
	if !theater.Config.LowStockAlerts && !theater.Config.ExpiryAlerts {
		s.logger.Debug("stock alerts disabled for theater",
			zap.String("theater_id", theater.ID.String()),
		)
		return nil
	}

	asOf := s.now().UTC()
	docs, err := s.stocks.stockRepo.FindAllForTheater(ctx, theater.ID)
	if err != nil {
		return fmt.Errorf("load stock documents: %w", err)
	}
	products, err := s.stocks.productIndex(ctx, docs)
	if err != nil {
		return fmt.Errorf("resolve products: %w", err)
	}

	var (
		lowStock []lowStockLine
		expired  []expiryLine
		expiring []expiryLine
		firstErr error
	)

	horizon := asOf.AddDate(0, 0, s.expiryWarningDays)
	for _, group := range groupByProduct(docs) {
		productID := group[0].ProductID
		product, known := products[productID]
		code, name := productID.String(), ""
		if known {
			code, name = product.Code, product.Name
		}

		// the latest document's closing balance is the product's balance
		// today; carry-forward keeps it seeded even across untouched months
		balance := group[len(group)-1].ClosingBalance

		if theater.Config.ExpiryAlerts {
			for _, lot := range stock.PendingExpiryAcross(group, horizon) {
				line := expiryLine{
					productCode: code,
					productName: name,
					batchNumber: lot.BatchNumber,
					expiryDate:  lot.ExpiryDate,
					quantity:    lot.Remaining.String(),
				}
				if !lot.ExpiryDate.Before(asOf) {
					expiring = append(expiring, line)
					continue
				}
				if err := s.writeOff(ctx, theater.ID, productID, lot, asOf); err != nil {
					s.logger.Error("expiry write-off failed",
						zap.String("theater_id", theater.ID.String()),
						zap.String("product_id", productID.String()),
						zap.String("batch", lot.BatchNumber),
						zap.Error(err),
					)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				expired = append(expired, line)
				balance = balance.Sub(lot.Remaining)
			}
		}

		if theater.Config.LowStockAlerts && known && product.MinThreshold.IsPositive() &&
			balance.LessThan(product.MinThreshold) {
			lowStock = append(lowStock, lowStockLine{
				productCode: code,
				productName: name,
				balance:     balance.String(),
				threshold:   product.MinThreshold.String(),
			})
		}
	}

	if len(lowStock) == 0 && len(expired) == 0 && len(expiring) == 0 {
		s.logger.Debug("no stock alerts for theater",
			zap.String("theater_id", theater.ID.String()),
		)
		return firstErr
	}

	recipient := theater.AlertRecipient()
	if recipient == "" {
		s.logger.Warn("stock alerts found but theater has no alert address",
			zap.String("theater_id", theater.ID.String()),
			zap.String("theater_code", theater.Code),
			zap.Int("low_stock", len(lowStock)),
			zap.Int("expired", len(expired)),
			zap.Int("expiring", len(expiring)),
		)
		return firstErr
	}

	localDate := s.now().In(theater.Location()).Format("2006-01-02")
	subject := fmt.Sprintf("[%s] Daily stock alerts %s", theater.Code, localDate)
	body := buildAlertBody(theater.Name, localDate, lowStock, expired, expiring)
	if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}

	s.logger.Info("stock alert mail sent",
		zap.String("theater_id", theater.ID.String()),
		zap.String("recipient", recipient),
		zap.Int("low_stock", len(lowStock)),
		zap.Int("expired", len(expired)),
		zap.Int("expiring", len(expiring)),
	)
	return firstErr
}

// writeOff records an EXPIRED entry for a batch past its expiry date and
// cascades the reduced balance into later months. The entry lands in the
// month the write-off happens, not the month the batch arrived, keeping
// batches received before a month rollover reconcilable.
func (s *AlertService) writeOff(ctx context.Context, theaterID, productID uuid.UUID, lot stock.ExpiredLot, asOf time.Time) error {
	doc, err := s.stocks.getOrCreateMonth(ctx, theaterID, productID, asOf.Year(), int(asOf.Month()))
	if err != nil {
		return err
	}
	input := stock.EntryInput{
		EntryDate:   asOf,
		Type:        stock.EntryTypeExpired,
		Expired:     lot.Remaining,
		BatchNumber: lot.BatchNumber,
		Note:        "Automatic expiry write-off",
	}
	if _, err := doc.AddEntry(input); err != nil {
		return err
	}
	if err := s.stocks.stockRepo.Save(ctx, doc); err != nil {
		return err
	}
	return s.stocks.propagateCarryForward(ctx, theaterID, productID, doc.Year, doc.Month, doc.ClosingBalance)
}

func buildAlertBody(theaterName, localDate string, lowStock []lowStockLine, expired, expiring []expiryLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily stock report for %s on %s\n", theaterName, localDate)

	if len(lowStock) > 0 {
		b.WriteString("\nLow stock:\n")
		for _, line := range lowStock {
			fmt.Fprintf(&b, "  - %s %s: balance %s, minimum %s\n",
				line.productCode, line.productName, line.balance, line.threshold)
		}
	}
	if len(expired) > 0 {
		b.WriteString("\nExpired batches written off:\n")
		for _, line := range expired {
			fmt.Fprintf(&b, "  - %s %s, batch %q expired %s: %s written off\n",
				line.productCode, line.productName, line.batchNumber,
				line.expiryDate.Format("2006-01-02"), line.quantity)
		}
	}
	if len(expiring) > 0 {
		b.WriteString("\nBatches expiring soon:\n")
		for _, line := range expiring {
			fmt.Fprintf(&b, "  - %s %s, batch %q expires %s: %s in stock\n",
				line.productCode, line.productName, line.batchNumber,
				line.expiryDate.Format("2006-01-02"), line.quantity)
		}
	}
	return b.String()
}
