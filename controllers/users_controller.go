package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

// ListUsers backs the settings page's account overview. Admin only; account
// creation happens through the provisioning command, never over HTTP.
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.DB().Collection("users").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
			return
		}

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode users"})
			return
		}
		if users == nil {
			users = []models.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}
