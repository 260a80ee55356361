package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/identity-system/internal/core/ports"
)

const collectionAuthEvents = "auth_events"

// EventRepository implements ports.AuthEventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionAuthEvents)}
}

// InsertEvent persists an event to the auth_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event ports.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"type":        string(event.Type),
		"email":       event.Email,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.AccountID != "" {
		doc["account_id"] = event.AccountID
	}
	if event.Actor != "" {
		doc["actor"] = event.Actor
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes indexes events by account and time for audit lookups.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
