package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// DebitNoteRepository persists debit notes.
type DebitNoteRepository struct {
	coll *mongo.Collection
}

// NewDebitNoteRepository builds a repository over the debit_notes collection.
func NewDebitNoteRepository(db *mongo.Database) *DebitNoteRepository {
	return &DebitNoteRepository{coll: db.Collection(debitNotesCollection)}
}

func (r *DebitNoteRepository) Create(ctx context.Context, note *models.DebitNote) error {
	res, err := r.coll.InsertOne(ctx, note)
	if err != nil {
		return fmt.Errorf("insert debit note: %w", translate(err))
	}
	note.ID = insertedID(res)
	return nil
}

func (r *DebitNoteRepository) FindByID(ctx context.Context, id string) (models.DebitNote, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.DebitNote{}, err
	}

	var note models.DebitNote
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&note); err != nil {
		return models.DebitNote{}, fmt.Errorf("find debit note %s: %w", id, translate(err))
	}
	return note, nil
}

// List returns debit notes newest first, optionally restricted to one status.
func (r *DebitNoteRepository) List(ctx context.Context, status models.DebitNoteStatus) ([]models.DebitNote, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find debit notes: %w", err)
	}

	notes := []models.DebitNote{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode debit notes: %w", err)
	}
	return notes, nil
}

func (r *DebitNoteRepository) Update(ctx context.Context, note models.DebitNote) error {
	return replaceByID(ctx, r.coll, note.ID, note, "debit note")
}

func (r *DebitNoteRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "debit note")
}
