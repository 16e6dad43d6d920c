package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = apperr.Validation("INVALID_DATE", "date must use the YYYY-MM-DD format")

type OrderLister interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.SalesOrder, error)
}

type ProductLister interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
}

type SummaryStore interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Ledger receives a copy of every published summary.
type Ledger interface {
	AppendDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Notifier delivers the digest text.
type Notifier interface {
	SendText(ctx context.Context, text string) error
}

// Deps groups the reporting collaborators. Ledger and Notifier are optional.
type Deps struct {
	Orders    OrderLister
	Products  ProductLister
	Summaries SummaryStore
	Ledger    Ledger
	Notifier  Notifier
}

// Service builds and publishes daily sales summaries.
type Service struct {
	deps      Deps
	threshold int
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. Products at or below
// lowStockThreshold units are reported as low stock.
func NewService(deps Deps, lowStockThreshold int, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{deps: deps, threshold: lowStockThreshold, location: loc, logger: logger, now: time.Now}
}

// ParseDay resolves a YYYY-MM-DD string in the reporting timezone. An empty
// value means today.
func (s *Service) ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.now().In(s.location), nil
	}
	if len(value) > 10 {
		value = value[:10]
	}
	day, err := time.ParseInLocation(dateLayout, value, s.location)
	if err != nil {
		return time.Time{}, ErrInvalidDate.Wrap(err)
	}
	return day, nil
}

// BuildDailySummary aggregates the local calendar day containing day.
// Cancelled orders are left out.
func (s *Service) BuildDailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	local := day.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	orders, err := s.deps.Orders.List(ctx, models.OrderFilter{From: start.UTC(), To: end.UTC()})
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("load orders: %w", err)
	}

	var (
		revenue  = decimal.Zero
		tax      = decimal.Zero
		discount = decimal.Zero
		pending  = decimal.Zero
	)
	summary := models.DailySummary{Date: start.Format(dateLayout), LowStock: []models.StockAlert{}}

	for _, order := range orders {
		if order.OrderStatus == models.OrderCancelled || order.PaymentStatus == models.PaymentCancelled {
			continue
		}
		summary.OrderCount++
		for _, item := range order.Items {
			summary.ItemsSold += item.Quantity
		}
		revenue = revenue.Add(decimal.NewFromFloat(order.GrandTotal))
		tax = tax.Add(decimal.NewFromFloat(order.TaxAmount))
		discount = discount.Add(decimal.NewFromFloat(order.DiscountAmount))
		if order.PaymentStatus == models.PaymentPending {
			pending = pending.Add(decimal.NewFromFloat(order.GrandTotal))
		}
	}
	summary.Revenue = revenue.Truncate(2).InexactFloat64()
	summary.TaxCollected = tax.Truncate(2).InexactFloat64()
	summary.DiscountGiven = discount.Truncate(2).InexactFloat64()
	summary.PendingPayments = pending.Truncate(2).InexactFloat64()

	threshold := s.threshold
	low, err := s.deps.Products.List(ctx, models.ProductFilter{MaxQuantity: &threshold})
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("load low stock: %w", err)
	}
	for _, p := range low {
		summary.LowStock = append(summary.LowStock, models.StockAlert{
			ProductID:   p.ID.Hex(),
			Name:        p.Name,
			ModelNumber: p.ModelNumber,
			Quantity:    p.Quantity,
		})
	}

	summary.CreatedAt = s.now().UTC()
	return summary, nil
}

// Publish stores the summary and forwards it to the ledger and notifier when
// they are configured. Forwarding failures are logged and returned together
// after every target was tried.
func (s *Service) Publish(ctx context.Context, summary models.DailySummary) error {
	if err := s.deps.Summaries.SaveDailySummary(ctx, summary); err != nil {
		return fmt.Errorf("save summary %s: %w", summary.Date, err)
	}

	var errs []error
	if s.deps.Ledger != nil {
		if err := s.deps.Ledger.AppendDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to export summary to sheet", zap.String("date", summary.Date), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.SendText(ctx, FormatDigest(summary)); err != nil {
			s.logger.Error("failed to send summary digest", zap.String("date", summary.Date), zap.Error(err))
			errs = append(errs, err)
		}
	}

	s.logger.Info("daily summary published",
		zap.String("date", summary.Date),
		zap.Int("orders", summary.OrderCount),
		zap.Float64("revenue", summary.Revenue))
	return errors.Join(errs...)
}

// RunDaily builds and publishes the summary for the current local day.
func (s *Service) RunDaily(ctx context.Context) error {
	summary, err := s.BuildDailySummary(ctx, s.now())
	if err != nil {
		return err
	}
	return s.Publish(ctx, summary)
}

// FormatDigest renders a short human-readable digest.
func FormatDigest(summary models.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sales summary %s\n", summary.Date)
	if summary.OrderCount == 0 {
		b.WriteString("No orders today.\n")
	} else {
		fmt.Fprintf(&b, "Orders: %d (%d items)\n", summary.OrderCount, summary.ItemsSold)
		fmt.Fprintf(&b, "Revenue: %.2f (tax %.2f, discount %.2f)\n", summary.Revenue, summary.TaxCollected, summary.DiscountGiven)
		fmt.Fprintf(&b, "Pending payments: %.2f\n", summary.PendingPayments)
	}

	if len(summary.LowStock) > 0 {
		b.WriteString("Low stock:\n")
		for _, alert := range summary.LowStock {
			fmt.Fprintf(&b, "- %s (%s): %d left\n", alert.Name, alert.ModelNumber, alert.Quantity)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
