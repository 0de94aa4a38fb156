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

var bentoSort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}}

// ---------------- CREATE ----------------
func CreateBentoCard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title     string                `json:"title" binding:"required"`
			Link      string                `json:"link"`
			Image     string                `json:"image"`
			Size      string                `json:"size"`
			Type      string                `json:"type"`
			Services  []models.ServiceEntry `json:"services"`
			Published *bool                 `json:"published"`
			Order     int                   `json:"order"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		published := true
		if input.Published != nil {
			published = *input.Published
		}

		now := time.Now()
		card := models.BentoCard{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Link:      input.Link,
			Image:     input.Image,
			Size:      input.Size,
			Type:      input.Type,
			Services:  input.Services,
			Published: published,
			Order:     input.Order,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := card.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.DB().Collection("bento_cards").InsertOne(ctx, card); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create card"})
			return
		}
		c.JSON(http.StatusCreated, card)
	}
}

// ---------------- LIST ----------------
func ListBentoCards(cfg *config.Config) gin.HandlerFunc {
	return listBento(cfg, bson.M{})
}

// PublicBentoCards lists published cards only.
func PublicBentoCards(cfg *config.Config) gin.HandlerFunc {
	return listBento(cfg, bson.M{"published": true})
}

func listBento(cfg *config.Config, filter bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.DB().Collection("bento_cards").Find(ctx, filter, options.Find().SetSort(bentoSort))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch cards"})
			return
		}

		var cards []models.BentoCard
		if err := cursor.All(ctx, &cards); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode cards"})
			return
		}
		if len(cards) == 0 {
			c.JSON(http.StatusOK, []models.BentoCard{})
			return
		}

		latest := cards[0]
		for _, card := range cards {
			if card.UpdatedAt.After(latest.UpdatedAt) {
				latest = card
			}
		}
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, cards)
	}
}

// ---------------- UPDATE ----------------
func UpdateBentoCard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}

		var input struct {
			Title     string                `json:"title" binding:"required"`
			Link      string                `json:"link"`
			Image     string                `json:"image"`
			Size      string                `json:"size"`
			Type      string                `json:"type"`
			Services  []models.ServiceEntry `json:"services"`
			Published bool                  `json:"published"`
			Order     int                   `json:"order"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		card := models.BentoCard{
			Title:     input.Title,
			Link:      input.Link,
			Image:     input.Image,
			Size:      input.Size,
			Type:      input.Type,
			Services:  input.Services,
			Published: input.Published,
			Order:     input.Order,
		}
		if err := card.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"$set": bson.M{
			"title":      card.Title,
			"link":       card.Link,
			"image":      card.Image,
			"size":       card.Size,
			"type":       card.Type,
			"services":   card.Services,
			"published":  card.Published,
			"order":      card.Order,
			"updated_at": time.Now(),
		}}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("bento_cards")
		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, update)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update card"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}

		var updated models.BentoCard
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated card"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteBentoCard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("bento_cards")

		var existing models.BentoCard
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete card"})
			return
		}

		utils.EnqueueMediaCleanup(cfg, existing.Image)

		c.JSON(http.StatusOK, gin.H{
			"message": "card deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
