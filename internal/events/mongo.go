package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoWriteTimeout = 3 * time.Second

// MongoActivityLog appends events to a MongoDB collection.
type MongoActivityLog struct {
	collection *mongo.Collection
}

func NewMongoActivityLog(db *mongo.Database) *MongoActivityLog {
	return &MongoActivityLog{collection: db.Collection("activity")}
}

// EnsureIndexes creates the lookup indexes used by activity queries.
func (l *MongoActivityLog) EnsureIndexes(ctx context.Context) error {
	_, err := l.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (l *MongoActivityLog) Publish(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoWriteTimeout)
	defer cancel()
	_, err := l.collection.InsertOne(ctx, event)
	return err
}

// Close is a no-op: the client is owned and disconnected by the caller.
func (l *MongoActivityLog) Close() error {
	return nil
}
