package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

// DebugDB dumps the state of the known content locations plus environment
// presence flags. Operator troubleshooting only; mounted behind auth.
func DebugDB(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		report := gin.H{
			"envCheck": gin.H{
				"mongoUri":   os.Getenv("MONGODB_URI") != "",
				"jwtSecret":  cfg.JWTSecret != "",
				"imgbbKey":   cfg.ImgBBKey != "",
				"cloudinary": cfg.CloudinaryCloudName != "",
				"driveCreds": cfg.DriveServiceAccountFile != "" || cfg.DriveAPIKey != "",
				"zeptoMail":  cfg.ZeptoAPIKey != "",
				"dbName":     cfg.DBName,
			},
		}

		db := cfg.DB()
		paths := gin.H{}

		paths["site/hero"] = readDoc(ctx, db, "site", models.SiteHeroID)
		paths["site/banner"] = readDoc(ctx, db, "site", models.SiteBannerID)
		paths["site/giving"] = readDoc(ctx, db, "site", models.SiteGivingID)
		paths["site/bento/cards"] = readCollection(ctx, db, "bento_cards")
		paths["site/announcements/items"] = readCollection(ctx, db, "announcements")
		paths["site/gallery/items"] = readCollection(ctx, db, "gallery_items")
		paths["site/giving/submissions"] = readCollection(ctx, db, "giving_submissions")
		paths["media_cleanup"] = readCollection(ctx, db, "media_cleanup")

		report["paths"] = paths
		c.JSON(http.StatusOK, report)
	}
}

func readDoc(ctx context.Context, db *mongo.Database, collection, id string) gin.H {
	var doc bson.M
	err := db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return gin.H{"exists": false, "data": nil}
	}
	if err != nil {
		return gin.H{"error": err.Error()}
	}
	return gin.H{"exists": true, "data": doc}
}

func readCollection(ctx context.Context, db *mongo.Database, collection string) gin.H {
	col := db.Collection(collection)

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return gin.H{"error": err.Error()}
	}

	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetLimit(5))
	if err != nil {
		return gin.H{"error": err.Error()}
	}
	var samples []bson.M
	if err := cursor.All(ctx, &samples); err != nil {
		return gin.H{"error": err.Error()}
	}

	return gin.H{
		"count":   count,
		"empty":   count == 0,
		"samples": samples,
	}
}
