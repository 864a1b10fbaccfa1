package main

import (
	"context"
	"log"
	"os"
	"time"

	"shelby-backend/internal/auth"
	"shelby-backend/internal/config"
	"shelby-backend/internal/db"
	"shelby-backend/internal/models"
	"shelby-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds an admin account and a week of open slots so a fresh environment
// is bookable out of the box. Safe to run repeatedly: everything is an
// upsert keyed on natural identifiers.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	adminEmail := getenvOr("SEED_ADMIN_EMAIL", "admin@shelbydetailing.ca")
	adminPassword := getenvOr("SEED_ADMIN_PASSWORD", "")
	if adminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)
	_, err = cols.Users.UpdateOne(ctx,
		bson.M{"email": adminEmail},
		bson.M{"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"name":         "Shelby Admin",
			"email":        adminEmail,
			"password":     hash,
			"isAdmin":      true,
			"referralCode": "SHELBY-ADMIN01",
			"createdAt":    now,
			"updatedAt":    now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("admin ready: %s", adminEmail)

	slots := []models.TimeSlot{
		{StartTime: "09:00", EndTime: "10:30", ServiceType: "CORE", IsAvailable: true},
		{StartTime: "11:00", EndTime: "12:30", ServiceType: "CORE", IsAvailable: true},
		{StartTime: "09:00", EndTime: "11:00", ServiceType: "PRO", IsAvailable: true},
		{StartTime: "13:00", EndTime: "16:00", ServiceType: "ULTRA", IsAvailable: true},
	}

	for offset := 1; offset <= 7; offset++ {
		date := schedule.NormalizeDate(now.AddDate(0, 0, offset), cfg.Timezone)
		_, err := cols.Availabilities.UpdateOne(ctx,
			bson.M{"date": date},
			bson.M{"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID().Hex(),
				"date":      date,
				"timeSlots": slots,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("availability seeded for the next 7 days")
}

func getenvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
