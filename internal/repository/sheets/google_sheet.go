package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/cctvstore/internal/config"
)

// Tab is one spreadsheet tab that rows are read from and appended to.
type Tab interface {
	Append(ctx context.Context, rows [][]interface{}) error
	Rows(ctx context.Context) ([][]interface{}, error)
}

// GoogleTab is a Tab backed by the Sheets API. Every call targets the same
// A1 range, e.g. "Summary!A:H".
type GoogleTab struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	a1Range       string
	logger        *zap.Logger
}

// NewGoogleTab authenticates with the service account file from cfg and binds
// the client to columns A..lastColumn of the named tab.
func NewGoogleTab(ctx context.Context, cfg config.SheetsConfig, tab string, lastColumn byte, logger *zap.Logger) (*GoogleTab, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("sheets export is not configured")
	}
	if tab == "" {
		return nil, fmt.Errorf("sheet tab name must not be empty")
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	a1 := columnRange(tab, lastColumn)
	return &GoogleTab{
		values:        service.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		a1Range:       a1,
		logger:        logger.With(zap.String("range", a1)),
	}, nil
}

func columnRange(tab string, lastColumn byte) string {
	return fmt.Sprintf("%s!A:%c", tab, lastColumn)
}

// Append writes rows after the last populated row in a single request.
func (t *GoogleTab) Append(ctx context.Context, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	_, err := t.values.Append(t.spreadsheetID, t.a1Range, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), t.a1Range, err)
	}

	t.logger.Debug("rows appended", zap.Int("rows", len(rows)))
	return nil
}

// Rows returns everything currently in the range, header included.
func (t *GoogleTab) Rows(ctx context.Context) ([][]interface{}, error) {
	resp, err := t.values.Get(t.spreadsheetID, t.a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.a1Range, err)
	}
	return resp.Values, nil
}
