package taxonomy

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("taxonomy entity not found")

type Repository interface {
	Ensure(ctx context.Context, slug, name string) (Entity, error)
	GetBySlug(ctx context.Context, slug string) (Entity, error)
	GetByIDs(ctx context.Context, ids []string) ([]Entity, error)
	List(ctx context.Context) ([]Entity, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// Ensure is an atomic find-or-create keyed by slug. A retried caller gets
// the already-created entity back, never a duplicate.
func (r *MongoRepository) Ensure(ctx context.Context, slug, name string) (Entity, error) {
	filter := bson.M{"slug": slug}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"slug":       slug,
			"name":       name,
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entity Entity
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entity); err != nil {
		return Entity{}, err
	}
	return entity, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Entity, error) {
	var entity Entity
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&entity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Entity{}, ErrNotFound
		}
		return Entity{}, err
	}
	return entity, nil
}

func (r *MongoRepository) GetByIDs(ctx context.Context, ids []string) ([]Entity, error) {
	if len(ids) == 0 {
		return []Entity{}, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Entity, 0, len(ids))
	for cursor.Next(ctx) {
		var entity Entity
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Entity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Entity, 0)
	for cursor.Next(ctx) {
		var entity Entity
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		items = append(items, entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
