package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepository hands out monotonically increasing numbers per name.
type SequenceRepository struct {
	coll *mongo.Collection
}

// NewSequenceRepository builds a repository over the sequences collection.
func NewSequenceRepository(db *mongo.Database) *SequenceRepository {
	return &SequenceRepository{coll: db.Collection(sequencesCollection)}
}

// Next atomically increments and returns the named counter, starting at 1.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return doc.Seq, nil
}
