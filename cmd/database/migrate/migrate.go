package migration

import (
	"fmt"
	"log"

	"FoodBridge-Backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid-ossp backs the uuid_generate_v4 defaults; cube and
	// earthdistance back the nearby-listings query.
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"cube\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"earthdistance\" CASCADE;")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.FoodListing{}); err != nil {
		log.Fatalf("Error migrating food listing database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PickupRequest{}); err != nil {
		log.Fatalf("Error migrating pickup request database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Notification{}); err != nil {
		log.Fatalf("Error migrating notification database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Message{}); err != nil {
		log.Fatalf("Error migrating message database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
