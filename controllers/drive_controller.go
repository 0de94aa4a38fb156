package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/penielchurch/site-backend/config"
	utils "github.com/penielchurch/site-backend/utils"
)

// DriveImages lists image files from the configured Drive folder. Missing
// credentials or upstream failures degrade to an empty list so the public
// gallery never breaks; responses are edge-cacheable for an hour.
func DriveImages(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		folderID := c.Query("folderId")
		if folderID == "" {
			folderID = cfg.DriveFolderID
		}

		images := utils.GetDriveImages(c.Request.Context(), cfg, folderID)

		c.Header("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=600")
		c.JSON(http.StatusOK, gin.H{
			"images":      images,
			"lastUpdated": time.Now().UTC().Format(time.RFC3339),
			"source":      "api",
		})
	}
}
