package entities

import (
	"time"

	"github.com/google/uuid"
)

type FoodListing struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID       uuid.UUID  `json:"donor_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"` // cooked, raw, packaged, baked, beverages, other
	DietaryTags   []string   `gorm:"serializer:json" json:"dietary_tags,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	PickupAddress string     `json:"pickup_address,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Status        string     `json:"status"` // available, claimed, completed, expired

	Donor          *User            `gorm:"foreignKey:DonorID"`
	PickupRequests []*PickupRequest `gorm:"foreignKey:ListingID"`
	Timestamp
}
