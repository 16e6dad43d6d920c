package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	if res == nil {
		return primitive.NilObjectID
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any, kind string) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s: %w", kind, translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replace %s %s: %w", kind, id.Hex(), ErrNotFound)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, kind string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
