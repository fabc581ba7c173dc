package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBStateRepository implements StateRepository using MongoDB.
type MongoDBStateRepository struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

// stateDocument is the stored shape. The record is kept as its JSON text so
// integer and decimal fields survive the BSON round trip unchanged.
type stateDocument struct {
	Namespace string    `bson:"namespace"`
	Payload   string    `bson:"payload"`
	Items     int       `bson:"items"`
	Chats     int       `bson:"chats"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoDBStateRepository connects to MongoDB and ensures the namespace index exists.
func NewMongoDBStateRepository(uri, database, collection string) (*MongoDBStateRepository, error) {
	client, err := connectMongo(uri)
	if err != nil {
		return nil, err
	}

	db := client.Database(database)
	coll := db.Collection(collection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Printf("[MongoDB] Warning: failed to create index: %v", err)
	}

	log.Printf("[MongoDB] Connected to %s/%s", database, collection)
	return &MongoDBStateRepository{client: client, db: db, collection: coll}, nil
}

func connectMongo(uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URI is required for the mongodb store")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Client exposes the connection so the activity log can share it.
func (r *MongoDBStateRepository) Client() *mongo.Client { return r.client }

// Load returns the record stored under namespace.
func (r *MongoDBStateRepository) Load(ctx context.Context, namespace string) (*model.State, error) {
	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"namespace": namespace}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return DecodeState([]byte(doc.Payload))
}

// Save upserts the record stored under namespace.
func (r *MongoDBStateRepository) Save(ctx context.Context, namespace string, state *model.State) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	filter := bson.M{"namespace": namespace}
	update := bson.M{
		"$set": bson.M{
			"payload":    string(data),
			"items":      len(state.Items),
			"chats":      len(state.Chats),
			"updated_at": time.Now(),
		},
	}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// GetStats returns statistics about the state collection.
func (r *MongoDBStateRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"driver": "mongodb"}

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	stats["namespaces"] = count

	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	var doc stateDocument
	if err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc); err == nil {
		stats["last_write"] = doc.UpdatedAt
	}

	return stats, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBStateRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

var _ StateRepository = (*MongoDBStateRepository)(nil)
