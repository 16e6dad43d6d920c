package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
	"github.com/mamadbah2/cctvstore/internal/service/pricing"
)

var (
	ErrDebitNoteNotFound = apperr.NotFound("DEBIT_NOTE_NOT_FOUND", "debit note not found")
	ErrDebitNoteFields   = apperr.Validation("MISSING_FIELDS", "sales_order_id and reason are required")
	ErrDebitNoteEmpty    = apperr.Validation("NO_ITEMS", "items or total_amount is required")
	ErrReferencedOrder   = apperr.Validation("ORDER_NOT_FOUND", "referenced sales order not found")
)

// DebitNoteItemInput is one claimed line.
type DebitNoteItemInput struct {
	ProductID   string
	Description string
	Quantity    int
	Price       float64
}

// DebitNoteInput creates a debit note. Customer fields default to the order's.
type DebitNoteInput struct {
	SalesOrderID  string
	CustomerName  string
	CustomerPhone string
	Reason        string
	Items         []DebitNoteItemInput
	TotalAmount   *float64
	Status        models.DebitNoteStatus
}

// DebitNoteUpdate carries optional edits; nil fields are kept.
type DebitNoteUpdate struct {
	Reason      *string
	Items       []DebitNoteItemInput
	TotalAmount *float64
	Status      *models.DebitNoteStatus
}

func (s *Service) CreateDebitNote(ctx context.Context, in DebitNoteInput) (models.DebitNote, error) {
	in.SalesOrderID = strings.TrimSpace(in.SalesOrderID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.SalesOrderID == "" || in.Reason == "" {
		return models.DebitNote{}, ErrDebitNoteFields
	}
	if len(in.Items) == 0 && in.TotalAmount == nil {
		return models.DebitNote{}, ErrDebitNoteEmpty
	}
	if in.Status == "" {
		in.Status = models.DebitNotePending
	}
	if err := in.Status.Validate(); err != nil {
		return models.DebitNote{}, apperr.Validation("INVALID_STATUS", err.Error())
	}

	order, err := s.orders.FindByID(ctx, in.SalesOrderID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return models.DebitNote{}, ErrReferencedOrder.Wrap(err)
		}
		return models.DebitNote{}, apperr.Internal(fmt.Errorf("find order: %w", err))
	}

	items, total, err := debitNoteItems(in.Items)
	if err != nil {
		return models.DebitNote{}, err
	}
	if in.TotalAmount != nil {
		total = pricing.Truncate2(*in.TotalAmount)
	}

	now := s.now()
	number, err := s.nextNumber(ctx, "DN", now)
	if err != nil {
		return models.DebitNote{}, apperr.Internal(err)
	}

	note := models.DebitNote{
		Number:        number,
		SalesOrderID:  order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  firstNonEmpty(in.CustomerName, order.CustomerName),
		CustomerPhone: firstNonEmpty(in.CustomerPhone, order.CustomerPhone),
		Reason:        in.Reason,
		Items:         items,
		TotalAmount:   total,
		Status:        in.Status,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}

	if err := s.debitNotes.Create(ctx, &note); err != nil {
		return models.DebitNote{}, apperr.Internal(fmt.Errorf("create debit note: %w", err))
	}

	s.logger.Info("debit note created",
		zap.String("number", note.Number),
		zap.String("order_number", note.OrderNumber),
		zap.Float64("total", note.TotalAmount))
	return note, nil
}

func (s *Service) ListDebitNotes(ctx context.Context, status models.DebitNoteStatus) ([]models.DebitNote, error) {
	notes, err := s.debitNotes.List(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return notes, nil
}

func (s *Service) GetDebitNote(ctx context.Context, id string) (models.DebitNote, error) {
	note, err := s.debitNotes.FindByID(ctx, id)
	if err != nil {
		return models.DebitNote{}, debitNoteError(err)
	}
	return note, nil
}

// UpdateDebitNote edits reason, items or status. New items recompute the
// total unless an explicit total is given.
func (s *Service) UpdateDebitNote(ctx context.Context, id string, update DebitNoteUpdate) (models.DebitNote, error) {
	note, err := s.debitNotes.FindByID(ctx, id)
	if err != nil {
		return models.DebitNote{}, debitNoteError(err)
	}

	if update.Reason != nil {
		reason := strings.TrimSpace(*update.Reason)
		if reason == "" {
			return models.DebitNote{}, ErrDebitNoteFields
		}
		note.Reason = reason
	}
	if update.Items != nil {
		items, total, err := debitNoteItems(update.Items)
		if err != nil {
			return models.DebitNote{}, err
		}
		note.Items = items
		note.TotalAmount = total
	}
	if update.TotalAmount != nil {
		note.TotalAmount = pricing.Truncate2(*update.TotalAmount)
	}
	if update.Status != nil {
		if err := update.Status.Validate(); err != nil {
			return models.DebitNote{}, apperr.Validation("INVALID_STATUS", err.Error())
		}
		note.Status = *update.Status
	}
	note.UpdatedAt = s.now().UTC()

	if err := s.debitNotes.Update(ctx, note); err != nil {
		return models.DebitNote{}, debitNoteError(err)
	}
	return note, nil
}

func (s *Service) DeleteDebitNote(ctx context.Context, id string) error {
	if err := s.debitNotes.Delete(ctx, id); err != nil {
		return debitNoteError(err)
	}
	s.logger.Info("debit note deleted", zap.String("id", id))
	return nil
}

func debitNoteItems(in []DebitNoteItemInput) ([]models.DebitNoteItem, float64, error) {
	lines := make([]pricing.Line, len(in))
	for i, item := range in {
		if item.Quantity <= 0 {
			return nil, 0, ErrInvalidQuantity
		}
		lines[i] = pricing.Line{Quantity: float64(item.Quantity), Price: item.Price}
	}
	totals := pricing.Calculate(pricing.Input{Items: lines})

	items := make([]models.DebitNoteItem, len(in))
	for i, item := range in {
		items[i] = models.DebitNoteItem{
			ProductID:   strings.TrimSpace(item.ProductID),
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       totals.Lines[i].LineTotal,
		}
	}
	return items, totals.Subtotal, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func debitNoteError(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrDebitNoteNotFound.Wrap(err)
	}
	return apperr.Internal(err)
}
