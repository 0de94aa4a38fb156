package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config carries everything the handlers need: the Mongo client plus the
// env-derived settings for the external services (image host, Drive, email).
type Config struct {
	MongoClient *mongo.Client
	DBName      string

	Port           string
	AllowedOrigins []string
	JWTSecret      string

	// Login alias map: username -> account email. Usernames without "@" are
	// resolved through this map before any sign-in attempt.
	AdminUsername   string
	ManagerUsername string
	AdminEmail      string
	ManagerEmail    string

	// Image hosting. When ImgBBKey is set the imgbb host is used; otherwise
	// Cloudinary if its credentials are present.
	ImgBBKey            string
	ImgBBEndpoint       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Google Drive bridge. Service account file wins over the API key.
	DriveServiceAccountFile string
	DriveAPIKey             string
	DriveFolderID           string

	// ZeptoMail notifications for new donation submissions.
	ZeptoAPIURL string
	ZeptoAPIKey string
	EmailFrom   string
	NotifyEmail string

	// Hostname suffix that triggers the root -> dashboard redirect on the
	// hosted deployment.
	DeployDomainSuffix string
}

// Load reads .env (if present), resolves all settings and connects to Mongo.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg := &Config{
		DBName:          getenv("DB_NAME", "peniel_site"),
		Port:            getenv("PORT", "8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AdminUsername:   getenv("ADMIN_USERNAME", "9000012512"),
		ManagerUsername: getenv("MANAGER_USERNAME", "peniel team"),
		AdminEmail:      getenv("ADMIN_EMAIL", "admin@peniel.church"),
		ManagerEmail:    getenv("MANAGER_EMAIL", "manager@peniel.church"),

		ImgBBKey:            os.Getenv("IMGBB_API_KEY"),
		ImgBBEndpoint:       getenv("IMGBB_ENDPOINT", "https://api.imgbb.com/1/upload"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		DriveServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		DriveAPIKey:             os.Getenv("GOOGLE_DRIVE_API_KEY"),
		DriveFolderID:           getenv("DRIVE_FOLDER_ID", "158Ho4qRVDavLPw2YVLjkr2qmyP0DQarf"),

		ZeptoAPIURL: os.Getenv("ZEPTO_API_URL"),
		ZeptoAPIKey: os.Getenv("ZEPTO_API_KEY"),
		EmailFrom:   os.Getenv("EMAIL_FROM"),
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),

		DeployDomainSuffix: getenv("DEPLOY_DOMAIN_SUFFIX", "vercel.app"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	uri := getenv("MONGODB_URI", "mongodb://localhost:27017")
	client, err := connectMongo(uri)
	if err != nil {
		return nil, err
	}
	cfg.MongoClient = client

	return cfg, nil
}

func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// DB returns the handle handlers read and write through.
func (c *Config) DB() *mongo.Database {
	return c.MongoClient.Database(c.DBName)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
