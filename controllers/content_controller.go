package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

// Fallback QR shown when no giving config document exists yet.
const defaultGivingQR = "https://i.ibb.co/397rX5dZ/qr-code.png"

func siteCol(cfg *config.Config) *mongo.Collection {
	return cfg.DB().Collection("site")
}

// ---------------- HERO ----------------
func GetHero(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var hero models.Hero
		err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteHeroID}).Decode(&hero)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusOK, models.Hero{})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch hero"})
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

func SaveHero(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title     string `json:"title" binding:"required"`
			Subtitle  string `json:"subtitle"`
			Image     string `json:"image"`
			Published bool   `json:"published"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		hero := models.Hero{
			ID:        models.SiteHeroID,
			Title:     input.Title,
			Subtitle:  input.Subtitle,
			Image:     input.Image,
			Published: input.Published,
			UpdatedAt: time.Now(),
		}
		if err := hero.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Whole-document replace; concurrent saves are last-write-wins.
		opts := options.Replace().SetUpsert(true)
		if _, err := siteCol(cfg).ReplaceOne(ctx, bson.M{"_id": models.SiteHeroID}, hero, opts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save hero"})
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

// ---------------- BANNER ----------------
func GetBanner(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var banner models.Banner
		err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteBannerID}).Decode(&banner)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusOK, models.Banner{})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch banner"})
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

func SaveBanner(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title     string `json:"title" binding:"required"`
			Link      string `json:"link"`
			Image     string `json:"image"`
			Published bool   `json:"published"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		banner := models.Banner{
			ID:        models.SiteBannerID,
			Title:     input.Title,
			Link:      input.Link,
			Image:     input.Image,
			Published: input.Published,
			UpdatedAt: time.Now(),
		}
		if err := banner.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := options.Replace().SetUpsert(true)
		if _, err := siteCol(cfg).ReplaceOne(ctx, bson.M{"_id": models.SiteBannerID}, banner, opts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save banner"})
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

// ---------------- GIVING CONFIG ----------------
func GetGivingConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var giving models.GivingConfig
		err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteGivingID}).Decode(&giving)
		if err != nil && err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch giving config"})
			return
		}
		if giving.QRURL == "" {
			giving.QRURL = defaultGivingQR
		}
		c.JSON(http.StatusOK, giving)
	}
}

func SaveGivingConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			QRURL string `json:"qrUrl" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		giving := models.GivingConfig{
			ID:        models.SiteGivingID,
			QRURL:     input.QRURL,
			UpdatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := options.Replace().SetUpsert(true)
		if _, err := siteCol(cfg).ReplaceOne(ctx, bson.M{"_id": models.SiteGivingID}, giving, opts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save giving config"})
			return
		}
		c.JSON(http.StatusOK, giving)
	}
}

// ---------------- PUBLIC SINGLETONS ----------------

// PublicHero serves the hero only when published; otherwise an empty object
// so the frontend falls back to its placeholder content.
func PublicHero(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var hero models.Hero
		err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteHeroID, "published": true}).Decode(&hero)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

func PublicBanner(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var banner models.Banner
		err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteBannerID, "published": true}).Decode(&banner)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}
