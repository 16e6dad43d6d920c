package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
	"github.com/mamadbah2/cctvstore/internal/service/pricing"
)

var (
	ErrOrderNotFound     = apperr.NotFound("ORDER_NOT_FOUND", "sales order not found")
	ErrMissingCustomer   = apperr.Validation("MISSING_CUSTOMER", "customer name and phone are required")
	ErrNoItems           = apperr.Validation("NO_ITEMS", "at least one item is required")
	ErrInvalidQuantity   = apperr.Validation("INVALID_QUANTITY", "item quantity must be greater than zero")
	ErrProductNotFound   = apperr.Validation("PRODUCT_NOT_FOUND", "product not found")
	ErrInsufficientStock = apperr.Validation("INSUFFICIENT_STOCK", "insufficient stock")
	ErrNoStatusChange    = apperr.Validation("NO_STATUS", "payment_status or order_status is required")
	ErrOrderCancelled    = apperr.Validation("ORDER_CANCELLED", "a cancelled order cannot be reopened")
)

// ProductStore is the catalog access order creation needs.
type ProductStore interface {
	FindByID(ctx context.Context, id string) (models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.SalesOrder) error
	FindByID(ctx context.Context, id string) (models.SalesOrder, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.SalesOrder, error)
	Update(ctx context.Context, order models.SalesOrder) error
}

type DebitNoteStore interface {
	Create(ctx context.Context, note *models.DebitNote) error
	FindByID(ctx context.Context, id string) (models.DebitNote, error)
	List(ctx context.Context, status models.DebitNoteStatus) ([]models.DebitNote, error)
	Update(ctx context.Context, note models.DebitNote) error
	Delete(ctx context.Context, id string) error
}

// Sequencer hands out counter values for generated numbers.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Stores groups the repositories the order service depends on.
type Stores struct {
	Products   ProductStore
	Orders     OrderStore
	DebitNotes DebitNoteStore
	Sequences  Sequencer
}

// ItemInput is one requested line. A nil Price uses the catalog price.
type ItemInput struct {
	ProductID       string
	Quantity        int
	Price           *float64
	DiscountPercent *float64
	TaxPercent      *float64
}

// CreateOrderInput is the request to place a sales order.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	Items           []ItemInput
	TaxPercent      float64
	DiscountPercent float64
	DiscountAmount  float64
	PaymentStatus   models.PaymentStatus
	Notes           string
}

// StatusUpdate changes payment and/or fulfilment status.
type StatusUpdate struct {
	PaymentStatus *models.PaymentStatus
	OrderStatus   *models.OrderStatus
}

// Service handles sales orders and debit notes.
type Service struct {
	products   ProductStore
	orders     OrderStore
	debitNotes DebitNoteStore
	sequences  Sequencer
	location   *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the order service. Generated numbers carry the date in loc.
func NewService(stores Stores, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		products:   stores.Products,
		orders:     stores.Orders,
		debitNotes: stores.DebitNotes,
		sequences:  stores.Sequences,
		location:   loc,
		logger:     logger,
		now:        time.Now,
	}
}

type reservation struct {
	productID primitive.ObjectID
	quantity  int
}

// CreateOrder validates the request against the catalog, prices it, reserves
// stock and stores the order. Nothing is written when validation fails.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (models.SalesOrder, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if in.CustomerName == "" || in.CustomerPhone == "" {
		return models.SalesOrder{}, ErrMissingCustomer
	}
	if len(in.Items) == 0 {
		return models.SalesOrder{}, ErrNoItems
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	if err := in.PaymentStatus.Validate(); err != nil {
		return models.SalesOrder{}, apperr.Validation("INVALID_STATUS", err.Error())
	}

	items := make([]models.OrderItem, len(in.Items))
	lines := make([]pricing.Line, len(in.Items))
	requested := map[primitive.ObjectID]int{}
	stock := map[primitive.ObjectID]models.Product{}

	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return models.SalesOrder{}, ErrInvalidQuantity
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return models.SalesOrder{}, apperr.Validation(ErrProductNotFound.Code(),
					fmt.Sprintf("product not found: %s", item.ProductID)).Wrap(err)
			}
			return models.SalesOrder{}, apperr.Internal(fmt.Errorf("find product: %w", err))
		}

		requested[product.ID] += item.Quantity
		stock[product.ID] = product
		if requested[product.ID] > product.Quantity {
			return models.SalesOrder{}, apperr.Validation(ErrInsufficientStock.Code(),
				fmt.Sprintf("insufficient stock for %s: %d available", product.Name, product.Quantity))
		}

		price := product.Price
		if item.Price != nil {
			price = *item.Price
		}
		lines[i] = pricing.Line{
			Quantity:        float64(item.Quantity),
			Price:           price,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
		}
		items[i] = models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ModelNumber: product.ModelNumber,
			Quantity:    item.Quantity,
			Price:       price,
		}
	}

	totals := pricing.Calculate(pricing.Input{
		Items:           lines,
		TaxPercent:      in.TaxPercent,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  in.DiscountAmount,
	})
	for i, line := range totals.Lines {
		items[i].LineTotal = line.LineTotal
		items[i].DiscountPercent = line.DiscountPercent
		items[i].TaxPercent = line.TaxPercent
		items[i].LineDiscount = line.LineDiscount
		items[i].LineTax = line.LineTax
		items[i].FinalTotal = line.FinalTotal
	}

	reserved, err := s.reserve(ctx, requested, stock)
	if err != nil {
		return models.SalesOrder{}, err
	}

	now := s.now()
	number, err := s.nextNumber(ctx, "SO", now)
	if err != nil {
		s.release(ctx, reserved)
		return models.SalesOrder{}, apperr.Internal(err)
	}

	order := models.SalesOrder{
		OrderNumber:     number,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		Items:           items,
		Subtotal:        totals.Subtotal,
		TaxPercent:      in.TaxPercent,
		TaxAmount:       totals.TaxAmount,
		DiscountAmount:  totals.DiscountAmount,
		GrandTotal:      totals.GrandTotal,
		PaymentStatus:   in.PaymentStatus,
		OrderStatus:     models.OrderProcessing,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		s.release(ctx, reserved)
		return models.SalesOrder{}, apperr.Internal(fmt.Errorf("create order: %w", err))
	}

	s.logger.Info("sales order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.Float64("grand_total", order.GrandTotal))
	return order, nil
}

// reserve decrements stock per product with a conditional update. When one
// decrement loses a race, everything already reserved is given back.
func (s *Service) reserve(ctx context.Context, requested map[primitive.ObjectID]int, stock map[primitive.ObjectID]models.Product) ([]reservation, error) {
	reserved := make([]reservation, 0, len(requested))
	for id, qty := range requested {
		err := s.products.DecrementStock(ctx, id, qty)
		if err == nil {
			reserved = append(reserved, reservation{productID: id, quantity: qty})
			continue
		}

		s.release(ctx, reserved)
		if errors.Is(err, mongodb.ErrInsufficientStock) {
			return nil, apperr.Validation(ErrInsufficientStock.Code(),
				fmt.Sprintf("insufficient stock for %s", stock[id].Name)).Wrap(err)
		}
		return nil, apperr.Internal(fmt.Errorf("reserve stock: %w", err))
	}
	return reserved, nil
}

// release returns reserved units. Failures are logged and skipped.
func (s *Service) release(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.products.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			s.logger.Error("failed to release stock",
				zap.String("product_id", r.productID.Hex()),
				zap.Int("quantity", r.quantity),
				zap.Error(err))
		}
	}
}

func (s *Service) nextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	day := at.In(s.location).Format("20060102")
	seq, err := s.sequences.Next(ctx, strings.ToLower(prefix)+"-"+day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq), nil
}

func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.SalesOrder, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (models.SalesOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.SalesOrder{}, orderError(err)
	}
	return order, nil
}

// UpdateOrderStatus changes payment or fulfilment status. Cancelling an order
// puts its units back on the shelf, so a cancelled order stays cancelled.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, update StatusUpdate) (models.SalesOrder, error) {
	if update.PaymentStatus == nil && update.OrderStatus == nil {
		return models.SalesOrder{}, ErrNoStatusChange
	}
	if update.PaymentStatus != nil {
		if err := update.PaymentStatus.Validate(); err != nil {
			return models.SalesOrder{}, apperr.Validation("INVALID_STATUS", err.Error())
		}
	}
	if update.OrderStatus != nil {
		if err := update.OrderStatus.Validate(); err != nil {
			return models.SalesOrder{}, apperr.Validation("INVALID_STATUS", err.Error())
		}
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.SalesOrder{}, orderError(err)
	}

	if order.OrderStatus == models.OrderCancelled &&
		update.OrderStatus != nil && *update.OrderStatus != models.OrderCancelled {
		return models.SalesOrder{}, ErrOrderCancelled
	}

	cancelling := update.OrderStatus != nil &&
		*update.OrderStatus == models.OrderCancelled &&
		order.OrderStatus != models.OrderCancelled

	if update.PaymentStatus != nil {
		order.PaymentStatus = *update.PaymentStatus
	}
	if update.OrderStatus != nil {
		order.OrderStatus = *update.OrderStatus
	}
	order.UpdatedAt = s.now().UTC()

	if err := s.orders.Update(ctx, order); err != nil {
		return models.SalesOrder{}, orderError(err)
	}

	if cancelling {
		s.release(ctx, itemsReservation(order.Items))
		s.logger.Info("sales order cancelled, stock restored", zap.String("order_number", order.OrderNumber))
	}
	return order, nil
}

func itemsReservation(items []models.OrderItem) []reservation {
	out := make([]reservation, 0, len(items))
	for _, item := range items {
		out = append(out, reservation{productID: item.ProductID, quantity: item.Quantity})
	}
	return out
}

func orderError(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrOrderNotFound.Wrap(err)
	}
	return apperr.Internal(err)
}
