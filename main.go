package main

import (
	"context"
	"log"
	"time"

	"FoodBridge-Backend/cmd/config"
	migration "FoodBridge-Backend/cmd/database/migrate"
	"FoodBridge-Backend/internal/utils"
	"FoodBridge-Backend/pkg/listing"
	"FoodBridge-Backend/pkg/logger"
)

// listingSweepInterval is how often overdue available listings are
// flipped to expired.
const listingSweepInterval = 10 * time.Minute

func main() {
	utils.LoadConfig()
	logger.InitLogger()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	// the sweep never uploads, so no object storage is wired in
	sweeper := listing.NewListingService(listing.NewListingRepository(db), nil)
	go func() {
		ticker := time.NewTicker(listingSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := sweeper.ExpireOverdueListings(context.Background()); err != nil {
				logger.Log.WithError(err).Error("listing expiry sweep failed")
			}
		}
	}()

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
