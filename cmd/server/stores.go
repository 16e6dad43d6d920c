package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/config"
	"github.com/mamadbah2/cctvstore/internal/repository/memory"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
	"github.com/mamadbah2/cctvstore/internal/service/auth"
	"github.com/mamadbah2/cctvstore/internal/service/catalog"
	"github.com/mamadbah2/cctvstore/internal/service/orders"
	"github.com/mamadbah2/cctvstore/internal/service/reporting"
	"github.com/mamadbah2/cctvstore/internal/service/suppliers"
)

type productRepository interface {
	catalog.ProductStore
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// repositories is the persistence surface shared by the services.
type repositories struct {
	users      auth.UserStore
	products   productRepository
	suppliers  suppliers.SupplierStore
	orders     orders.OrderStore
	debitNotes orders.DebitNoteStore
	summaries  reporting.SummaryStore
	sequences  orders.Sequencer

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (r *repositories) Ping(ctx context.Context) error { return r.ping(ctx) }

func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.New()
		return &repositories{
			users:      store.Users(),
			products:   store.Products(),
			suppliers:  store.Suppliers(),
			orders:     store.Orders(),
			debitNotes: store.DebitNotes(),
			summaries:  store.Summaries(),
			sequences:  store.Sequences(),
			ping:       store.Ping,
			close:      func(context.Context) error { return nil },
		}, nil

	case "mongodb":
		store, err := mongodb.NewStore(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.ConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}

		db := store.Database()
		return &repositories{
			users:      mongodb.NewUserRepository(db),
			products:   mongodb.NewProductRepository(db),
			suppliers:  mongodb.NewSupplierRepository(db),
			orders:     mongodb.NewOrderRepository(db),
			debitNotes: mongodb.NewDebitNoteRepository(db),
			summaries:  mongodb.NewSummaryRepository(db),
			sequences:  mongodb.NewSequenceRepository(db),
			ping:       store.Ping,
			close:      store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Storage.Driver)
}
