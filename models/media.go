package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaCleanup is a queued best-effort deletion of a hosted image whose
// owning record has already been removed. Record deletion never waits on it.
type MediaCleanup struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL        string             `bson:"url" json:"url"`
	Attempts   int                `bson:"attempts" json:"attempts"`
	LastError  string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	EnqueuedAt time.Time          `bson:"enqueued_at" json:"enqueued_at"`
}
