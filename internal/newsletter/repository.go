package newsletter

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, lead NewsletterLead) (bool, error)
	List(ctx context.Context, limit, offset int64) ([]NewsletterLead, error)
	Count(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// Insert upserts by email and reports whether a new lead was stored.
// An existing record is left untouched, including its original locale
// and source.
func (r *MongoRepository) Insert(ctx context.Context, lead NewsletterLead) (bool, error) {
	filter := bson.M{"email": lead.Email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        lead.ID,
			"email":      lead.Email,
			"locale":     lead.Locale,
			"source":     lead.Source,
			"created_at": lead.CreatedAt,
		},
	}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) List(ctx context.Context, limit, offset int64) ([]NewsletterLead, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]NewsletterLead, 0)
	for cursor.Next(ctx) {
		var lead NewsletterLead
		if err := cursor.Decode(&lead); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
