package intakes

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, intake ProblemIntake) error
	GetByID(ctx context.Context, id string) (ProblemIntake, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]ProblemIntake, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	TransitionStatus(ctx context.Context, id, from string, set bson.M) (ProblemIntake, error)
	SetPayloadCase(ctx context.Context, id, caseID string, now time.Time) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, intake ProblemIntake) error {
	_, err := r.col.InsertOne(ctx, intake)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (ProblemIntake, error) {
	var intake ProblemIntake
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&intake); err != nil {
		return ProblemIntake{}, err
	}
	return intake, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]ProblemIntake, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]ProblemIntake, 0)
	for cursor.Next(ctx) {
		var intake ProblemIntake
		if err := cursor.Decode(&intake); err != nil {
			return nil, err
		}
		items = append(items, intake)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

// TransitionStatus applies the set only while the record still holds the
// expected previous status; mongo.ErrNoDocuments signals a lost race.
func (r *MongoRepository) TransitionStatus(ctx context.Context, id, from string, set bson.M) (ProblemIntake, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated ProblemIntake
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return ProblemIntake{}, err
	}
	return updated, nil
}

func (r *MongoRepository) SetPayloadCase(ctx context.Context, id, caseID string, now time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"payload_case_id": caseID,
			"updated_at":      now,
		},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
