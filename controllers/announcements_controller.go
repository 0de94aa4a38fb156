package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
	utils "github.com/penielchurch/site-backend/utils"
)

// parseDate accepts RFC3339 or plain dates, same formats the admin forms send.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ---------------- CREATE ----------------
func CreateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title     string  `json:"title" binding:"required"`
			Body      string  `json:"body"`
			StartDate string  `json:"start_date" binding:"required"`
			EndDate   *string `json:"end_date"`
			Published bool    `json:"published"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		start, ok := parseDate(input.StartDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
			return
		}
		var end *time.Time
		if input.EndDate != nil && *input.EndDate != "" {
			parsed, ok := parseDate(*input.EndDate)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			end = &parsed
		}

		now := time.Now()
		item := models.Announcement{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Body:      input.Body,
			StartDate: start,
			EndDate:   end,
			Published: input.Published,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.DB().Collection("announcements").InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create announcement"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// ---------------- LIST ----------------
func ListAnnouncements(cfg *config.Config) gin.HandlerFunc {
	return listAnnouncements(cfg, func() bson.M { return bson.M{} })
}

// PublicAnnouncements lists published announcements whose display window
// covers now (open-ended when end_date is absent).
func PublicAnnouncements(cfg *config.Config) gin.HandlerFunc {
	return listAnnouncements(cfg, func() bson.M {
		now := time.Now()
		return bson.M{
			"published":  true,
			"start_date": bson.M{"$lte": now},
			"$or": []bson.M{
				{"end_date": bson.M{"$exists": false}},
				{"end_date": nil},
				{"end_date": bson.M{"$gte": now}},
			},
		}
	})
}

func listAnnouncements(cfg *config.Config, filter func() bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
		cursor, err := cfg.DB().Collection("announcements").Find(ctx, filter(), opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch announcements"})
			return
		}

		var items []models.Announcement
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode announcements"})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusOK, []models.Announcement{})
			return
		}

		latest := items[0]
		for _, item := range items {
			if item.UpdatedAt.After(latest.UpdatedAt) {
				latest = item
			}
		}
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, items)
	}
}

// ---------------- UPDATE ----------------
func UpdateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
			return
		}

		var input struct {
			Title     string  `json:"title"`
			Body      *string `json:"body"`
			StartDate string  `json:"start_date"`
			EndDate   *string `json:"end_date"`
			Published *bool   `json:"published"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Body != nil {
			update["body"] = *input.Body
		}
		if input.StartDate != "" {
			start, ok := parseDate(input.StartDate)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["start_date"] = start
		}
		if input.EndDate != nil {
			if *input.EndDate == "" {
				update["end_date"] = nil
			} else {
				end, ok := parseDate(*input.EndDate)
				if !ok {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
					return
				}
				update["end_date"] = end
			}
		}
		if input.Published != nil {
			update["published"] = *input.Published
		}
		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("announcements")
		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update announcement"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}

		var updated models.Announcement
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated announcement"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.DB().Collection("announcements").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete announcement"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "announcement deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
