package live

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

// Subscribable paths, mirroring the document layout the admin and public
// pages address content by.
const (
	PathHero          = "site/hero"
	PathBanner        = "site/banner"
	PathGiving        = "site/giving"
	PathBentoCards    = "site/bento/cards"
	PathAnnouncements = "site/announcements/items"
	PathGalleryItems  = "site/gallery/items"
	PathSubmissions   = "site/giving/submissions"
)

var knownPaths = map[string]bool{
	PathHero:          true,
	PathBanner:        true,
	PathGiving:        true,
	PathBentoCards:    true,
	PathAnnouncements: true,
	PathGalleryItems:  true,
	PathSubmissions:   true,
}

func KnownPath(p string) bool { return knownPaths[p] }

// querySnapshot is the default SnapshotFunc: one full read of whatever the
// path addresses, in the order subscribers display it.
func querySnapshot(ctx context.Context, cfg *config.Config, path string) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db := cfg.DB()

	switch path {
	case PathHero:
		var hero models.Hero
		if err := db.Collection("site").FindOne(ctx, bson.M{"_id": models.SiteHeroID}).Decode(&hero); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return hero, nil
	case PathBanner:
		var banner models.Banner
		if err := db.Collection("site").FindOne(ctx, bson.M{"_id": models.SiteBannerID}).Decode(&banner); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return banner, nil
	case PathGiving:
		var giving models.GivingConfig
		if err := db.Collection("site").FindOne(ctx, bson.M{"_id": models.SiteGivingID}).Decode(&giving); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return giving, nil
	case PathBentoCards:
		var cards []models.BentoCard
		opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
		if err := findAll(ctx, db, "bento_cards", opts, &cards); err != nil {
			return nil, err
		}
		return cards, nil
	case PathAnnouncements:
		var items []models.Announcement
		opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
		if err := findAll(ctx, db, "announcements", opts, &items); err != nil {
			return nil, err
		}
		return items, nil
	case PathGalleryItems:
		var items []models.GalleryItem
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		if err := findAll(ctx, db, "gallery_items", opts, &items); err != nil {
			return nil, err
		}
		return items, nil
	case PathSubmissions:
		var items []models.Submission
		opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
		if err := findAll(ctx, db, "giving_submissions", opts, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("unknown path %q", path)
}

func findAll(ctx context.Context, db *mongo.Database, collection string, opts *options.FindOptions, out interface{}) error {
	cursor, err := db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
