// Command provision bootstraps admin accounts out of band. Login never
// creates accounts; an operator runs this once per account instead.
//
//	provision -email admin@example.org -username 9000012512 -role admin -password '...'
//	provision -migrate-legacy
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	config "github.com/penielchurch/site-backend/config"
	models "github.com/penielchurch/site-backend/models"
)

func main() {
	var (
		email         = flag.String("email", "", "account email")
		username      = flag.String("username", "", "login alias shown to staff")
		password      = flag.String("password", "", "initial password")
		role          = flag.String("role", models.RoleManager, "admin or manager")
		migrateLegacy = flag.Bool("migrate-legacy", false, "copy documents from the legacy giving-submissions collection")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer cfg.MongoClient.Disconnect(context.Background())

	if *migrateLegacy {
		migrateLegacySubmissions(ctx, cfg)
		return
	}

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	user := models.User{
		Email:    *email,
		Username: *username,
		Role:     *role,
	}
	if err := user.Validate(); err != nil {
		log.Fatalf("invalid account: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("could not hash password: %v", err)
	}

	col := cfg.DB().Collection("users")
	update := bson.M{
		"$set": bson.M{
			"username":      user.Username,
			"role":          user.Role,
			"password_hash": string(hash),
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"email":      user.Email,
			"created_at": time.Now(),
		},
	}
	res, err := col.UpdateOne(ctx, bson.M{"email": user.Email}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Fatalf("could not provision account: %v", err)
	}
	if res.UpsertedCount > 0 {
		log.Printf("created %s account for %s", user.Role, user.Email)
	} else {
		log.Printf("updated %s account for %s", user.Role, user.Email)
	}
}

// migrateLegacySubmissions copies donation records from the dash-named
// collection the old write path used into the canonical one. Existing ids
// are skipped so the migration is rerunnable.
func migrateLegacySubmissions(ctx context.Context, cfg *config.Config) {
	src := cfg.DB().Collection("giving-submissions")
	dst := cfg.DB().Collection("giving_submissions")

	cursor, err := src.Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("could not read legacy submissions: %v", err)
	}

	var migrated, skipped int
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			log.Fatalf("could not decode legacy submission: %v", err)
		}
		_, err := dst.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("could not copy submission %v: %v", doc["_id"], err)
		}
		migrated++
	}
	if err := cursor.Err(); err != nil {
		log.Fatalf("legacy scan failed: %v", err)
	}
	log.Printf("migrated %d submissions (%d already present)", migrated, skipped)
}
