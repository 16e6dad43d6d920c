package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/memory"
)

type recordingLedger struct {
	got []models.DailySummary
	err error
}

func (l *recordingLedger) AppendDailySummary(_ context.Context, s models.DailySummary) error {
	l.got = append(l.got, s)
	return l.err
}

type recordingNotifier struct {
	texts []string
	err   error
}

func (n *recordingNotifier) SendText(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return n.err
}

var ist = time.FixedZone("IST", 5*3600+1800)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	orders := []models.SalesOrder{
		{
			OrderNumber:   "SO-1",
			Items:         []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
			GrandTotal:    220.5,
			TaxAmount:     20,
			PaymentStatus: models.PaymentPaid,
			OrderStatus:   models.OrderDelivered,
			CreatedAt:     time.Date(2026, 10, 19, 9, 0, 0, 0, ist),
		},
		{
			OrderNumber:    "SO-2",
			Items:          []models.OrderItem{{Quantity: 4}},
			GrandTotal:     100,
			DiscountAmount: 10,
			PaymentStatus:  models.PaymentPending,
			OrderStatus:    models.OrderProcessing,
			CreatedAt:      time.Date(2026, 10, 19, 23, 30, 0, 0, ist),
		},
		{
			OrderNumber:   "SO-3",
			Items:         []models.OrderItem{{Quantity: 9}},
			GrandTotal:    999,
			PaymentStatus: models.PaymentPending,
			OrderStatus:   models.OrderCancelled,
			CreatedAt:     time.Date(2026, 10, 19, 12, 0, 0, 0, ist),
		},
		{
			OrderNumber:   "SO-4",
			Items:         []models.OrderItem{{Quantity: 1}},
			GrandTotal:    50,
			PaymentStatus: models.PaymentPaid,
			OrderStatus:   models.OrderShipped,
			CreatedAt:     time.Date(2026, 10, 18, 23, 59, 0, 0, ist),
		},
	}
	for i := range orders {
		require.NoError(t, store.Orders().Create(ctx, &orders[i]))
	}
	for _, p := range []models.Product{
		{Name: "NVR 8ch", ModelNumber: "NVR-8", Quantity: 2},
		{Name: "Dome", ModelNumber: "D-1", Quantity: 30},
	} {
		p := p
		require.NoError(t, store.Products().Create(ctx, &p))
	}
}

func newTestService(store *memory.Store, deps Deps) *Service {
	deps.Orders = store.Orders()
	deps.Products = store.Products()
	deps.Summaries = store.Summaries()
	svc := NewService(deps, 5, ist, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 21, 0, 0, 0, ist) }
	return svc
}

func TestBuildDailySummary(t *testing.T) {
	store := memory.New()
	seed(t, store)
	svc := newTestService(store, Deps{})

	summary, err := svc.BuildDailySummary(context.Background(), time.Date(2026, 10, 19, 15, 0, 0, 0, ist))
	require.NoError(t, err)

	assert.Equal(t, "2026-10-19", summary.Date)
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, 7, summary.ItemsSold)
	assert.Equal(t, 320.5, summary.Revenue)
	assert.Equal(t, 20.0, summary.TaxCollected)
	assert.Equal(t, 10.0, summary.DiscountGiven)
	assert.Equal(t, 100.0, summary.PendingPayments)
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "NVR-8", summary.LowStock[0].ModelNumber)
}

func TestRunDailyPublishesEverywhere(t *testing.T) {
	store := memory.New()
	seed(t, store)
	ledger := &recordingLedger{}
	notifier := &recordingNotifier{}
	svc := newTestService(store, Deps{Ledger: ledger, Notifier: notifier})

	require.NoError(t, svc.RunDaily(context.Background()))

	saved, err := store.Summaries().FindByDate(context.Background(), "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.OrderCount)
	require.Len(t, ledger.got, 1)
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "Orders: 2 (7 items)")
	assert.Contains(t, notifier.texts[0], "NVR 8ch (NVR-8): 2 left")
}

func TestPublishKeepsGoingWhenLedgerFails(t *testing.T) {
	store := memory.New()
	ledger := &recordingLedger{err: errors.New("quota exceeded")}
	notifier := &recordingNotifier{}
	svc := newTestService(store, Deps{Ledger: ledger, Notifier: notifier})

	err := svc.Publish(context.Background(), models.DailySummary{Date: "2026-10-19"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Len(t, notifier.texts, 1)

	_, err = store.Summaries().FindByDate(context.Background(), "2026-10-19")
	assert.NoError(t, err)
}

func TestParseDay(t *testing.T) {
	svc := newTestService(memory.New(), Deps{})

	day, err := svc.ParseDay("2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, ist, day.Location())
	assert.Equal(t, 1, day.Day())

	today, err := svc.ParseDay("")
	require.NoError(t, err)
	assert.Equal(t, 19, today.Day())

	_, err = svc.ParseDay("19/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFormatDigestNoOrders(t *testing.T) {
	text := FormatDigest(models.DailySummary{Date: "2026-10-19"})
	assert.Equal(t, "Sales summary 2026-10-19\nNo orders today.", text)
}
