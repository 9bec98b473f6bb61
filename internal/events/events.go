// Package events publishes domain events about feed activity to optional
// sinks: a Kafka topic and a MongoDB activity collection.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	PostCreated    = "post.created"
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
	PostLiked      = "post.liked"
	PostUnliked    = "post.unliked"
	CommentCreated = "comment.created"
)

// Event is one domain occurrence. Refs carry the ids it concerns.
type Event struct {
	ID         string          `json:"id" bson:"_id"`
	Type       string          `json:"type" bson:"type"`
	ActorKey   string          `json:"actor_key,omitempty" bson:"actor_key,omitempty"`
	UserID     *uint           `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Refs       map[string]uint `json:"refs,omitempty" bson:"refs,omitempty"`
	OccurredAt time.Time       `json:"occurred_at" bson:"occurred_at"`
}

// New stamps an event of the given type with a fresh id and time.
func New(eventType, actorKey string, userID *uint, refs map[string]uint) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		ActorKey:   actorKey,
		UserID:     userID,
		Refs:       refs,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi forwards each event to all publishers and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
