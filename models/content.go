package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Singleton document ids inside the "site" collection.
const (
	SiteHeroID   = "hero"
	SiteBannerID = "banner"
	SiteGivingID = "giving"
)

type Hero struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	Title     string    `bson:"title" json:"title"`
	Subtitle  string    `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Published bool      `bson:"published" json:"published"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Banner struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	Title     string    `bson:"title" json:"title"`
	Link      string    `bson:"link,omitempty" json:"link,omitempty"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Published bool      `bson:"published" json:"published"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GivingConfig holds the payment QR shown in the donation wizard.
type GivingConfig struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	QRURL     string    `bson:"qr_url,omitempty" json:"qrUrl,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type ServiceEntry struct {
	Name string `bson:"name" json:"name"`
	Time string `bson:"time" json:"time"`
}

type BentoCard struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Size      string             `bson:"size" json:"size"` // normal, wide, tall, big
	Type      string             `bson:"type" json:"type"` // image, service_list
	Services  []ServiceEntry     `bson:"services,omitempty" json:"services,omitempty"`
	Published bool               `bson:"published" json:"published"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type GalleryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL       string             `bson:"url" json:"url"`
	Name      string             `bson:"name" json:"name"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
