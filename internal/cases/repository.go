package cases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Case) error
	UpsertDraft(ctx context.Context, item Case) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	ListPublished(ctx context.Context, locale, tagID, toolID string) ([]Case, error)
	GetPublishedBySlug(ctx context.Context, locale, slug string) (Case, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Case) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

// UpsertDraft inserts a draft keyed by (slug, locale) and never touches an
// existing record. Reports whether a new document was created.
func (r *MongoRepository) UpsertDraft(ctx context.Context, item Case) (bool, error) {
	filter := bson.M{"slug": item.Slug, "locale": item.Locale}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":            item.ID,
			"slug":           item.Slug,
			"title":          item.Title,
			"one_liner":      item.OneLiner,
			"locale":         item.Locale,
			"status":         StatusDraft,
			"tag_ids":        item.TagIDs,
			"tool_ids":       item.ToolIDs,
			"stack":          item.Stack,
			"problem":        item.Problem,
			"solution":       item.Solution,
			"learnings":      item.Learnings,
			"featured_image": item.FeaturedImage,
			"builder_id":     item.BuilderID,
			"created_at":     item.CreatedAt,
			"updated_at":     item.UpdatedAt,
		},
	}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListPublished(ctx context.Context, locale, tagID, toolID string) ([]Case, error) {
	query := bson.M{"locale": locale, "status": StatusPublished}
	if tagID != "" {
		query["tag_ids"] = tagID
	}
	if toolID != "" {
		query["tool_ids"] = toolID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Case, 0)
	for cursor.Next(ctx) {
		var item Case
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) GetPublishedBySlug(ctx context.Context, locale, slug string) (Case, error) {
	var item Case
	filter := bson.M{"slug": slug, "locale": locale, "status": StatusPublished}
	if err := r.col.FindOne(ctx, filter).Decode(&item); err != nil {
		return Case{}, err
	}
	return item, nil
}
