package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
	utils "github.com/penielchurch/site-backend/utils"
)

// fileResult reports the outcome of one file in a batch upload.
type fileResult struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// ---------------- UPLOAD ----------------

// uploadGalleryBatch runs per-file checks and uploads in parallel. Each file
// is isolated: one failure never aborts its siblings. rejected counts files
// that failed the local checks and so never reached the host.
func uploadGalleryBatch(files []*multipart.FileHeader, host utils.ImageHost, save func(context.Context, models.GalleryItem) error) (results []fileResult, completed, rejected int) {
	results = make([]fileResult, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			res := fileResult{Name: fh.Filename}

			// Size/MIME checks run before any network call.
			if err := utils.CheckImageFile(fh); err != nil {
				res.Error = err.Error()
				results[i] = res
				mu.Lock()
				rejected++
				mu.Unlock()
				return
			}

			file, err := fh.Open()
			if err != nil {
				res.Error = "failed to open file"
				results[i] = res
				mu.Lock()
				rejected++
				mu.Unlock()
				return
			}
			defer file.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()

			url, err := host.Upload(ctx, file, fh.Filename)
			if err != nil {
				res.Error = err.Error()
				results[i] = res
				return
			}

			item := models.GalleryItem{
				ID:        primitive.NewObjectID(),
				URL:       url,
				Name:      fh.Filename,
				Published: true,
				CreatedAt: time.Now(),
			}
			if err := item.Validate(); err != nil {
				res.Error = err.Error()
				results[i] = res
				return
			}
			if err := save(ctx, item); err != nil {
				res.Error = "could not save gallery item"
				results[i] = res
				return
			}

			res.URL = url
			results[i] = res
			mu.Lock()
			completed++
			mu.Unlock()
		}(i, fh)
	}
	wg.Wait()
	return results, completed, rejected
}

// UploadGalleryImages accepts N files under the "images" key. The response
// reports per-file outcomes plus completed/total; the status distinguishes a
// batch the client got entirely wrong (400) from one the host refused (502).
func UploadGalleryImages(cfg *config.Config, host utils.ImageHost) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}
		files := form.File["images"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
			return
		}

		results, completed, rejected := uploadGalleryBatch(files, host, func(ctx context.Context, item models.GalleryItem) error {
			_, err := cfg.DB().Collection("gallery_items").InsertOne(ctx, item)
			return err
		})

		status := http.StatusCreated
		if completed == 0 {
			if rejected == len(files) {
				status = http.StatusBadRequest
			} else {
				status = http.StatusBadGateway
			}
		}
		c.JSON(status, gin.H{
			"completed": completed,
			"total":     len(files),
			"files":     results,
		})
	}
}

// ---------------- LIST ----------------
func ListGalleryItems(cfg *config.Config) gin.HandlerFunc {
	return listGallery(cfg, bson.M{})
}

func PublicGalleryItems(cfg *config.Config) gin.HandlerFunc {
	return listGallery(cfg, bson.M{"published": true})
}

func listGallery(cfg *config.Config, filter bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := cfg.DB().Collection("gallery_items").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch gallery"})
			return
		}

		var items []models.GalleryItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode gallery"})
			return
		}
		if items == nil {
			items = []models.GalleryItem{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// ---------------- DELETE ----------------
func DeleteGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("gallery_items")

		var existing models.GalleryItem
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
			return
		}

		utils.EnqueueMediaCleanup(cfg, existing.URL)

		c.JSON(http.StatusOK, gin.H{
			"message": "item deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
