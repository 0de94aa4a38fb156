package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SubmissionPending  = "pending"
	SubmissionVerified = "verified"
)

// Donation purposes offered by the giving wizard.
var DonationPurposes = []string{"Ministry", "Building Fund", "Missions", "Tithe", "Offering"}

type Submission struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Purpose       string             `bson:"purpose" json:"purpose"`
	ScreenshotURL string             `bson:"screenshot_url" json:"screenshotUrl"`
	Status        string             `bson:"status" json:"status"` // pending, verified
	SubmittedAt   time.Time          `bson:"submitted_at" json:"submittedAt"`
}
