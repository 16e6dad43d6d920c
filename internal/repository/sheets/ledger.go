package sheets

import (
	"context"
	"fmt"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// SummaryLastColumn is the last column the summary ledger writes to.
const SummaryLastColumn = 'H'

var summaryHeader = []interface{}{
	"Date", "Orders", "Items Sold", "Revenue", "Tax", "Discount", "Pending Payments", "Low Stock",
}

// Ledger keeps one row per day of sales in a summary tab.
type Ledger struct {
	tab Tab
}

// NewLedger wraps a tab spanning columns A..SummaryLastColumn.
func NewLedger(tab Tab) *Ledger {
	return &Ledger{tab: tab}
}

// AppendDailySummary writes the summary unless its date is already recorded.
// The header row is added when the tab is empty.
func (l *Ledger) AppendDailySummary(ctx context.Context, summary models.DailySummary) error {
	rows, err := l.tab.Rows(ctx)
	if err != nil {
		return fmt.Errorf("load summary tab: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == summary.Date {
			return nil
		}
	}

	out := make([][]interface{}, 0, 2)
	if len(rows) == 0 {
		out = append(out, summaryHeader)
	}
	out = append(out, []interface{}{
		summary.Date,
		summary.OrderCount,
		summary.ItemsSold,
		summary.Revenue,
		summary.TaxCollected,
		summary.DiscountGiven,
		summary.PendingPayments,
		len(summary.LowStock),
	})
	return l.tab.Append(ctx, out)
}
