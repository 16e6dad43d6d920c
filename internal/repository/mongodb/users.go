package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

// UserRepository persists user accounts.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository builds a repository over the users collection.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// Create inserts the user and sets its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	user.ID = insertedID(res)
	return nil
}

// FindByID loads a user by hex id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail loads a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("find user: %w", translate(err))
	}
	return user, nil
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Update replaces the stored user document.
func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	return replaceByID(ctx, r.coll, user.ID, user, "user")
}

// Delete removes a user by hex id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "user")
}
