package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
	utils "github.com/penielchurch/site-backend/utils"
	wizardpkg "github.com/penielchurch/site-backend/wizard"
)

// ---------------- PUBLIC WIZARD ----------------

func StartWizard(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Start()
		c.JSON(http.StatusCreated, sess)
	}
}

func GetWizard(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// WizardForm stores the giver's details and advances to the payment step.
func WizardForm(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input wizardpkg.FormData
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := store.SubmitForm(c.Param("id"), input)
		switch {
		case err == wizardpkg.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case err == wizardpkg.ErrWrongStep:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, sess)
		}
	}
}

// WizardPayment serves the QR for the payment step, falling back to the
// default when no giving config exists.
func WizardPayment(cfg *config.Config, store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if sess.Step != wizardpkg.StepPayment {
			c.JSON(http.StatusConflict, gin.H{"error": wizardpkg.ErrWrongStep.Error(), "step": sess.Step})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		qr := defaultGivingQR
		var giving models.GivingConfig
		if err := siteCol(cfg).FindOne(ctx, bson.M{"_id": models.SiteGivingID}).Decode(&giving); err == nil && giving.QRURL != "" {
			qr = giving.QRURL
		}
		c.JSON(http.StatusOK, gin.H{"qrUrl": qr, "step": sess.Step})
	}
}

// WizardAdvance moves payment -> proof once the giver has scanned the QR.
func WizardAdvance(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Advance(c.Param("id"))
		switch {
		case err == wizardpkg.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, sess)
		}
	}
}

func WizardBack(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Back(c.Param("id"))
		switch {
		case err == wizardpkg.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, sess)
		}
	}
}

// WizardProof takes the payment screenshot, uploads it and records the
// submission as pending. BeginProof reserves the step, so a doubled submit
// cannot insert two submissions; on any failure the session stays on the
// proof step and the giver can retry.
func WizardProof(cfg *config.Config, store *wizardpkg.Store, host utils.ImageHost) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sess, err := store.BeginProof(id)
		switch {
		case err == wizardpkg.ErrSessionNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		saved := false
		defer func() {
			if !saved {
				store.EndProof(id, false)
			}
		}()

		fh, err := c.FormFile("screenshot")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please select a screenshot first"})
			return
		}
		if err := utils.CheckImageFile(fh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		screenshotURL, err := host.Upload(ctx, file, fh.Filename)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload, please try again", "details": err.Error()})
			return
		}

		submission := models.Submission{
			ID:            primitive.NewObjectID(),
			Name:          sess.Form.Name,
			Phone:         sess.Form.Phone,
			Address:       sess.Form.Address,
			Purpose:       sess.Form.Purpose,
			ScreenshotURL: screenshotURL,
			Status:        models.SubmissionPending,
			SubmittedAt:   time.Now(),
		}
		if err := submission.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := cfg.DB().Collection("giving_submissions").InsertOne(ctx, submission); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save submission, please try again"})
			return
		}

		saved = true
		store.EndProof(id, true)

		go utils.NotifyNewSubmission(cfg, submission.Name, submission.Purpose)

		c.JSON(http.StatusCreated, gin.H{"step": wizardpkg.StepSuccess, "submission": submission})
	}
}

// WizardClose discards a session, whatever step it is on.
func WizardClose(store *wizardpkg.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.Remove(c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

// ---------------- ADMIN DONATIONS ----------------

func ListSubmissions(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
		cursor, err := cfg.DB().Collection("giving_submissions").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch submissions"})
			return
		}

		var items []models.Submission
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode submissions"})
			return
		}
		if items == nil {
			items = []models.Submission{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// UpdateSubmissionStatus flips a submission between pending and verified.
func UpdateSubmissionStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Status != models.SubmissionPending && input.Status != models.SubmissionVerified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or verified"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("giving_submissions")
		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": input.Status}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update submission"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}

		var updated models.Submission
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			// Deleted between the update and the re-read.
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated submission"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteSubmission(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := cfg.DB().Collection("giving_submissions")

		var existing models.Submission
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete submission"})
			return
		}

		utils.EnqueueMediaCleanup(cfg, existing.ScreenshotURL)

		c.JSON(http.StatusOK, gin.H{
			"message": "submission deleted successfully",
			"id":      oid.Hex(),
		})
	}
}
