package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/memory"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
)

type fixture struct {
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T, logger *zap.Logger) *fixture {
	t.Helper()
	store := memory.New()
	svc := NewService(Stores{
		Products:   store.Products(),
		Orders:     store.Orders(),
		DebitNotes: store.DebitNotes(),
		Sequences:  store.Sequences(),
	}, time.UTC, logger)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC) }
	return &fixture{store: store, svc: svc}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, qty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, ModelNumber: name + "-M", Brand: "CP Plus", Category: "camera", Price: price, Quantity: qty}
	require.NoError(t, f.store.Products().Create(context.Background(), &p))
	return p
}

func (f *fixture) stockOf(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id.Hex())
	require.NoError(t, err)
	return p.Quantity
}

func ptr[T any](v T) *T { return &v }

func TestCreateOrderComputesTotalsAndReservesStock(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Bullet", 100, 10)

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Meena",
		CustomerPhone: "9000000001",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 2}},
		TaxPercent:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "SO-20261019-0001", order.OrderNumber)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 20.0, order.TaxAmount)
	assert.Equal(t, 220.0, order.GrandTotal)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Bullet", order.Items[0].ProductName)
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 8, f.stockOf(t, cam.ID))

	second, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Meena",
		CustomerPhone: "9000000001",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 1, Price: ptr(90.0)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-20261019-0002", second.OrderNumber)
	assert.Equal(t, 90.0, second.GrandTotal)
}

func TestCreateOrderDiscountClampsToZero(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)

	order, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:   "Ravi",
		CustomerPhone:  "1",
		Items:          []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 1}},
		DiscountAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.Subtotal)
	assert.Zero(t, order.GrandTotal)
}

func TestCreateOrderRejectsUnknownProductBeforeWriting(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items: []ItemInput{
			{ProductID: cam.ID.Hex(), Quantity: 1},
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, f.store.Orders().Count())
	assert.Equal(t, 3, f.stockOf(t, cam.ID))
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 4}},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Zero(t, f.store.Orders().Count())

	// the same product split across lines counts together
	_, err = f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items: []ItemInput{
			{ProductID: cam.ID.Hex(), Quantity: 2},
			{ProductID: cam.ID.Hex(), Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, f.stockOf(t, cam.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{CustomerPhone: "1", Items: []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 1}}})
	assert.ErrorIs(t, err, ErrMissingCustomer)

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{CustomerName: "A", CustomerPhone: "1"})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{CustomerName: "A", CustomerPhone: "1", Items: []ItemInput{{ProductID: cam.ID.Hex()}}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

type racingProducts struct {
	*memory.Products
	loseOn      primitive.ObjectID
	failRelease bool
}

func (r *racingProducts) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	if id == r.loseOn {
		return mongodb.ErrInsufficientStock
	}
	return r.Products.DecrementStock(ctx, id, qty)
}

func (r *racingProducts) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	if r.failRelease {
		return errors.New("connection reset")
	}
	return r.Products.IncrementStock(ctx, id, qty)
}

func TestCreateOrderLostRaceReleasesReservedStock(t *testing.T) {
	f := newFixture(t, nil)
	a := f.addProduct(t, "A", 10, 5)
	b := f.addProduct(t, "B", 10, 5)
	f.svc.products = &racingProducts{Products: f.store.Products(), loseOn: b.ID}

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items: []ItemInput{
			{ProductID: a.ID.Hex(), Quantity: 2},
			{ProductID: b.ID.Hex(), Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, f.stockOf(t, a.ID))
	assert.Zero(t, f.store.Orders().Count())
}

func TestCreateOrderInsertFailureReleasesStock(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)
	f.store.FailOrderInsert = errors.New("write concern")

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 2}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, 3, f.stockOf(t, cam.ID))
}

func TestReleaseFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, zap.New(core))
	cam := f.addProduct(t, "Dome", 50, 3)
	f.svc.products = &racingProducts{Products: f.store.Products(), failRelease: true}
	f.store.FailOrderInsert = errors.New("write concern")

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 2}},
	})
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("failed to release stock").Len())
	assert.Equal(t, 1, f.stockOf(t, cam.ID))
}

func TestUpdateOrderStatusCancelRestoresStock(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 3)
	ctx := context.Background()
	order, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "1",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 2}},
	})
	require.NoError(t, err)

	paid := models.PaymentPaid
	updated, err := f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, 1, f.stockOf(t, cam.ID))

	cancelled := models.OrderCancelled
	_, err = f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{OrderStatus: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, cam.ID))

	// cancelling twice does not restock twice
	_, err = f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{OrderStatus: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, cam.ID))
}

func TestUpdateOrderStatusCancelledOrderCannotReopen(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Bullet", 40, 10)
	ctx := context.Background()
	order, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName:  "Meena",
		CustomerPhone: "2",
		Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, f.stockOf(t, cam.ID))

	cancelled := models.OrderCancelled
	_, err = f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{OrderStatus: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stockOf(t, cam.ID))

	processing := models.OrderProcessing
	_, err = f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{OrderStatus: &processing})
	assert.ErrorIs(t, err, ErrOrderCancelled)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	stored, err := f.svc.GetOrder(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, stored.OrderStatus)

	_, err = f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{OrderStatus: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stockOf(t, cam.ID))

	// payment status can still be settled on a cancelled order
	refunded := models.PaymentCancelled
	updated, err := f.svc.UpdateOrderStatus(ctx, order.ID.Hex(), StatusUpdate{PaymentStatus: &refunded})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCancelled, updated.PaymentStatus)
	assert.Equal(t, 10, f.stockOf(t, cam.ID))
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.UpdateOrderStatus(ctx, primitive.NewObjectID().Hex(), StatusUpdate{})
	assert.ErrorIs(t, err, ErrNoStatusChange)

	bogus := models.OrderStatus("Lost")
	_, err = f.svc.UpdateOrderStatus(ctx, primitive.NewObjectID().Hex(), StatusUpdate{OrderStatus: &bogus})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	shipped := models.OrderShipped
	_, err = f.svc.UpdateOrderStatus(ctx, primitive.NewObjectID().Hex(), StatusUpdate{OrderStatus: &shipped})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersByStatus(t *testing.T) {
	f := newFixture(t, nil)
	cam := f.addProduct(t, "Dome", 50, 10)
	ctx := context.Background()
	for _, status := range []models.PaymentStatus{models.PaymentPaid, models.PaymentPending, models.PaymentPaid} {
		_, err := f.svc.CreateOrder(ctx, CreateOrderInput{
			CustomerName:  "Ravi",
			CustomerPhone: "1",
			Items:         []ItemInput{{ProductID: cam.ID.Hex(), Quantity: 1}},
			PaymentStatus: status,
		})
		require.NoError(t, err)
	}

	paid, err := f.svc.ListOrders(ctx, models.OrderFilter{PaymentStatus: models.PaymentPaid})
	require.NoError(t, err)
	assert.Len(t, paid, 2)

	_, err = f.svc.GetOrder(ctx, "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
