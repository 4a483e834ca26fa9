package entities

import (
	"github.com/google/uuid"
)

type PickupRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ListingID   uuid.UUID  `json:"listing_id"`
	ReceiverID  uuid.UUID  `json:"receiver_id"`
	VolunteerID *uuid.UUID `json:"volunteer_id,omitempty"`
	Status      string     `json:"status"` // pending, donor_approved, volunteer_requested, volunteer_accepted, picked_up, delivered, confirmed, cancelled
	Note        string     `json:"note,omitempty"`
	SelfPickup  bool       `json:"self_pickup"`

	Listing   *FoodListing `gorm:"foreignKey:ListingID"`
	Receiver  *User        `gorm:"foreignKey:ReceiverID"`
	Volunteer *User        `gorm:"foreignKey:VolunteerID"`
	Timestamp
}
