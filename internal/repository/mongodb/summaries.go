package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// SummaryRepository stores one daily sales summary per date.
type SummaryRepository struct {
	coll *mongo.Collection
}

// NewSummaryRepository builds a repository over the daily_summaries collection.
func NewSummaryRepository(db *mongo.Database) *SummaryRepository {
	return &SummaryRepository{coll: db.Collection(summariesCollection)}
}

// SaveDailySummary upserts the summary keyed by its date.
func (r *SummaryRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"date": summary.Date}, summary, opts); err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

// FindByDate loads the stored summary for a YYYY-MM-DD date.
func (r *SummaryRepository) FindByDate(ctx context.Context, date string) (models.DailySummary, error) {
	var summary models.DailySummary
	if err := r.coll.FindOne(ctx, bson.M{"date": date}).Decode(&summary); err != nil {
		return models.DailySummary{}, fmt.Errorf("find daily summary %s: %w", date, translate(err))
	}
	return summary, nil
}
