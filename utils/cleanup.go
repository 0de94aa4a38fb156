package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

const cleanupCollection = "media_cleanup"

// EnqueueMediaCleanup records a hosted image for best-effort deletion after
// its owning record was removed. Failures are logged and swallowed so record
// deletion never depends on media cleanup.
func EnqueueMediaCleanup(cfg *config.Config, imageURL string) {
	if imageURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.MediaCleanup{
		URL:        imageURL,
		EnqueuedAt: time.Now(),
	}
	if _, err := cfg.DB().Collection(cleanupCollection).InsertOne(ctx, entry); err != nil {
		log.Printf("could not enqueue media cleanup for %s: %v", imageURL, err)
	}
}

// CleanupWorker drains the media cleanup queue on an interval, retrying each
// entry until the host accepts the delete or reports it cannot delete at all.
type CleanupWorker struct {
	cfg      *config.Config
	host     ImageHost
	interval time.Duration
}

func NewCleanupWorker(cfg *config.Config, host ImageHost) *CleanupWorker {
	return &CleanupWorker{cfg: cfg, host: host, interval: 5 * time.Minute}
}

// Run blocks until ctx is cancelled.
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *CleanupWorker) drain(ctx context.Context) {
	col := w.cfg.DB().Collection(cleanupCollection)

	opCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cursor, err := col.Find(opCtx, bson.M{})
	if err != nil {
		log.Printf("media cleanup scan failed: %v", err)
		return
	}

	var pending []models.MediaCleanup
	if err := cursor.All(opCtx, &pending); err != nil {
		log.Printf("media cleanup decode failed: %v", err)
		return
	}

	for _, entry := range pending {
		err := w.host.Delete(opCtx, entry.URL)
		switch {
		case err == nil, err == ErrDeleteUnsupported:
			// Done, or nothing this host can ever do; either way stop retrying.
			if _, derr := col.DeleteOne(opCtx, bson.M{"_id": entry.ID}); derr != nil {
				log.Printf("could not dequeue media cleanup %s: %v", entry.URL, derr)
			}
		default:
			update := bson.M{"$inc": bson.M{"attempts": 1}, "$set": bson.M{"last_error": err.Error()}}
			if _, uerr := col.UpdateOne(opCtx, bson.M{"_id": entry.ID}, update); uerr != nil {
				log.Printf("could not record media cleanup failure for %s: %v", entry.URL, uerr)
			}
		}
	}
}
