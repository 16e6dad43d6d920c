package catalog

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

var (
	ErrProductNotFound = apperr.NotFound("PRODUCT_NOT_FOUND", "product not found")
	ErrMissingFields   = apperr.Validation("MISSING_FIELDS", "name, model number, brand and category are required")
	ErrNegativeValue   = apperr.Validation("NEGATIVE_VALUE", "price and quantity must not be negative")
)

// ProductStore is the persistence the catalog needs.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product models.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name        string
	ModelNumber string
	Brand       string
	Category    string
	Price       float64
	Quantity    int
	Resolution  string
	LensSpec    string
	PoE         bool
	NightVision bool
	Description string
}

// Service manages the product catalog.
type Service struct {
	products ProductStore
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a catalog service. Day boundaries for "today" use loc.
func NewService(products ProductStore, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{products: products, location: loc, logger: logger, now: time.Now}
}

func (s *Service) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := validateInput(&in); err != nil {
		return models.Product{}, err
	}

	now := s.now().UTC()
	product := models.Product{CreatedAt: now}
	apply(&product, in, now)

	if err := s.products.Create(ctx, &product); err != nil {
		return models.Product{}, apperr.Internal(fmt.Errorf("create product: %w", err))
	}

	s.logger.Info("product added",
		zap.String("product_id", product.ID.Hex()),
		zap.String("model_number", product.ModelNumber),
		zap.Int("quantity", product.Quantity))
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// TodayProducts lists products added since local midnight.
func (s *Service) TodayProducts(ctx context.Context) ([]models.Product, error) {
	now := s.now().In(s.location)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return s.ListProducts(ctx, models.ProductFilter{CreatedSince: midnight.UTC()})
}

// LowStock lists products at or under threshold units.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return s.ListProducts(ctx, models.ProductFilter{MaxQuantity: &threshold})
}

func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, productError(err)
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	if err := validateInput(&in); err != nil {
		return models.Product{}, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, productError(err)
	}

	apply(&product, in, s.now().UTC())
	if err := s.products.Update(ctx, product); err != nil {
		return models.Product{}, productError(err)
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return productError(err)
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

func validateInput(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.ModelNumber = strings.TrimSpace(in.ModelNumber)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = strings.TrimSpace(in.Category)

	if in.Name == "" || in.ModelNumber == "" || in.Brand == "" || in.Category == "" {
		return ErrMissingFields
	}
	if in.Price < 0 || in.Quantity < 0 {
		return ErrNegativeValue
	}
	return nil
}

func apply(p *models.Product, in ProductInput, now time.Time) {
	p.Name = in.Name
	p.ModelNumber = in.ModelNumber
	p.Brand = in.Brand
	p.Category = in.Category
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Resolution = in.Resolution
	p.LensSpec = in.LensSpec
	p.PoE = in.PoE
	p.NightVision = in.NightVision
	p.Description = in.Description
	p.UpdatedAt = now
}

func productError(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrProductNotFound.Wrap(err)
	}
	return apperr.Internal(err)
}
