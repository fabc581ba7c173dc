package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBActivityRepository implements ActivityRepository for MongoDB.
// IDs are the insertion time in nanoseconds, which keeps them sortable.
type MongoDBActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoDBActivityRepository uses an existing client.
func NewMongoDBActivityRepository(client *mongo.Client, dbName, collectionName string) *MongoDBActivityRepository {
	return &MongoDBActivityRepository{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

type activityDocument struct {
	Seq            int64 `bson:"seq"`
	model.Activity `bson:",inline"`
}

// Append inserts a new log entry.
func (r *MongoDBActivityRepository) Append(ctx context.Context, entry *model.Activity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.ID = entry.CreatedAt.UnixNano()
	if _, err := r.collection.InsertOne(ctx, activityDocument{Seq: entry.ID, Activity: *entry}); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// List returns log entries with pagination, newest first.
func (r *MongoDBActivityRepository) List(ctx context.Context, limit, offset int) ([]model.Activity, int64, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode activity: %w", err)
	}

	entries := make([]model.Activity, 0, len(docs))
	for _, d := range docs {
		a := d.Activity
		a.ID = d.Seq
		entries = append(entries, a)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return entries, count, nil
}

// Close is a no-op; the client belongs to the state repository.
func (r *MongoDBActivityRepository) Close() error { return nil }

var _ ActivityRepository = (*MongoDBActivityRepository)(nil)
