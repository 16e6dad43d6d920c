package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
)

const sequenceName = "supplier"

var (
	ErrSupplierNotFound = apperr.NotFound("SUPPLIER_NOT_FOUND", "supplier not found")
	ErrMissingFields    = apperr.Validation("MISSING_FIELDS", "supplier name and phone are required")
	ErrDuplicateID      = apperr.Conflict("SUPPLIER_EXISTS", "supplier id already exists")
)

// SupplierStore is the persistence the supplier service needs.
type SupplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id string) (models.Supplier, error)
	List(ctx context.Context, status models.SupplierStatus) ([]models.Supplier, error)
	Update(ctx context.Context, supplier models.Supplier) error
	Delete(ctx context.Context, id string) error
}

// Sequencer hands out counter values for generated identifiers.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Input is the editable part of a supplier record.
type Input struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	GSTNumber     string
	PANNumber     string
	Bank          models.BankDetails
	Status        models.SupplierStatus
}

// Service manages supplier master data.
type Service struct {
	suppliers SupplierStore
	sequences Sequencer
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(suppliers SupplierStore, sequences Sequencer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{suppliers: suppliers, sequences: sequences, logger: logger, now: time.Now}
}

// Create stores a new supplier with a generated SUP-nnnnn identifier.
func (s *Service) Create(ctx context.Context, in Input) (models.Supplier, error) {
	if err := normalize(&in); err != nil {
		return models.Supplier{}, err
	}

	seq, err := s.sequences.Next(ctx, sequenceName)
	if err != nil {
		return models.Supplier{}, apperr.Internal(err)
	}

	now := s.now().UTC()
	supplier := models.Supplier{
		SupplierID: fmt.Sprintf("SUP-%05d", seq),
		CreatedAt:  now,
	}
	apply(&supplier, in, now)

	if err := s.suppliers.Create(ctx, &supplier); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			return models.Supplier{}, ErrDuplicateID.Wrap(err)
		}
		return models.Supplier{}, apperr.Internal(fmt.Errorf("create supplier: %w", err))
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.SupplierID),
		zap.String("name", supplier.Name))
	return supplier, nil
}

// List returns suppliers, optionally only those in the given status.
func (s *Service) List(ctx context.Context, status models.SupplierStatus) ([]models.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return suppliers, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return models.Supplier{}, supplierError(err)
	}
	return supplier, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (models.Supplier, error) {
	if err := normalize(&in); err != nil {
		return models.Supplier{}, err
	}

	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return models.Supplier{}, supplierError(err)
	}

	apply(&supplier, in, s.now().UTC())
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return models.Supplier{}, supplierError(err)
	}
	return supplier, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return supplierError(err)
	}
	s.logger.Info("supplier deleted", zap.String("id", id))
	return nil
}

func normalize(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	in.PANNumber = strings.ToUpper(strings.TrimSpace(in.PANNumber))
	if in.Name == "" || in.Phone == "" {
		return ErrMissingFields
	}
	if in.Status == "" {
		in.Status = models.SupplierActive
	}
	if err := in.Status.Validate(); err != nil {
		return apperr.Validation("INVALID_STATUS", err.Error())
	}
	return nil
}

func apply(s *models.Supplier, in Input, now time.Time) {
	s.Name = in.Name
	s.ContactPerson = strings.TrimSpace(in.ContactPerson)
	s.Email = in.Email
	s.Phone = in.Phone
	s.Address = strings.TrimSpace(in.Address)
	s.GSTNumber = in.GSTNumber
	s.PANNumber = in.PANNumber
	s.Bank = in.Bank
	s.Status = in.Status
	s.UpdatedAt = now
}

func supplierError(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrSupplierNotFound.Wrap(err)
	}
	return apperr.Internal(err)
}
