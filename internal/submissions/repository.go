package submissions

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, sub CaseSubmission) error
	GetByID(ctx context.Context, id string) (CaseSubmission, error)
	ListPending(ctx context.Context) ([]CaseSubmission, error)
	TransitionStatus(ctx context.Context, id, from, to, caseID string, now time.Time) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, sub CaseSubmission) error {
	_, err := r.col.InsertOne(ctx, sub)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (CaseSubmission, error) {
	var sub CaseSubmission
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return CaseSubmission{}, err
	}
	return sub, nil
}

// ListPending returns oldest-first so moderation works through the queue
// in submission order.
func (r *MongoRepository) ListPending(ctx context.Context) ([]CaseSubmission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{"status": StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CaseSubmission, 0)
	for cursor.Next(ctx) {
		var sub CaseSubmission
		if err := cursor.Decode(&sub); err != nil {
			return nil, err
		}
		items = append(items, sub)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// TransitionStatus is a compare-and-set: the update only applies while the
// document still carries the expected previous status. Two racing approvals
// cannot both win it.
func (r *MongoRepository) TransitionStatus(ctx context.Context, id, from, to, caseID string, now time.Time) (bool, error) {
	set := bson.M{
		"status":     to,
		"updated_at": now,
	}
	if caseID != "" {
		set["approved_case_id"] = caseID
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
