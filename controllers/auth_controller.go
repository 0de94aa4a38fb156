package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

const tokenLifetime = 18 * time.Hour

// ResolveLoginEmail maps a username-or-email input to the account email.
// Inputs without "@" go through the alias map; anything left unresolved is a
// format error and never reaches the store.
func ResolveLoginEmail(cfg *config.Config, input string) (string, bool) {
	raw := strings.TrimSpace(input)
	if strings.Contains(raw, "@") {
		return raw, true
	}

	lower := strings.ToLower(raw)
	switch {
	case raw == cfg.AdminUsername:
		return cfg.AdminEmail, true
	case lower == strings.ToLower(cfg.ManagerUsername):
		return cfg.ManagerEmail, true
	case lower == "admin":
		return cfg.AdminEmail, true
	}
	return "", false
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email, ok := ResolveLoginEmail(cfg, input.Username)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  "auth/invalid-format",
				"error": "Please enter a valid email address or registered username",
			})
			return
		}

		col := cfg.DB().Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":  "auth/invalid-credential",
				"error": "unknown user or wrong password",
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": "auth/internal", "error": err.Error()})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":  "auth/invalid-credential",
				"error": "unknown user or wrong password",
			})
			return
		}

		now := time.Now()
		claims := jwt.MapClaims{
			"sub":   user.ID.Hex(),
			"role":  user.Role,
			"email": user.Email,
			"iat":   now.Unix(),
			"exp":   now.Add(tokenLifetime).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			// A signing failure means the server secret is broken, not the user.
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":  "auth/config",
				"error": "CONFIG ERROR: token signing failed, check JWT_SECRET",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID.Hex(),
				"email":    user.Email,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.DB().Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
