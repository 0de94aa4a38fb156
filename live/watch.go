package live

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Which collections feed which subscribed paths. The singleton collection
// fans out to all three singleton paths; per-document routing is not worth
// the bookkeeping for three documents.
var watchTargets = map[string][]string{
	"site":               {PathHero, PathBanner, PathGiving},
	"bento_cards":        {PathBentoCards},
	"announcements":      {PathAnnouncements},
	"gallery_items":      {PathGalleryItems},
	"giving_submissions": {PathSubmissions},
}

// Watch opens a change stream per watched collection and rebroadcasts the
// affected paths on every event. Streams are reopened with backoff on error;
// change streams need a replica set, so a standalone Mongo just logs and the
// site serves request/response only.
func (h *Hub) Watch(ctx context.Context) {
	for collection, paths := range watchTargets {
		go h.watchCollection(ctx, collection, paths)
	}
}

func (h *Hub) watchCollection(ctx context.Context, collection string, paths []string) {
	backoff := 5 * time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := h.cfg.DB().Collection(collection).Watch(ctx, mongo.Pipeline{})
		if err != nil {
			log.Printf("change stream unavailable for %s (retrying in %s): %v", collection, backoff, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 5*time.Minute {
				backoff *= 2
			}
			continue
		}
		backoff = 5 * time.Second

		for stream.Next(ctx) {
			for _, path := range paths {
				h.Broadcast(ctx, path)
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("change stream for %s closed: %v", collection, err)
		}
		stream.Close(context.Background())
	}
}
