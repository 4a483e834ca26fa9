package entities

import (
	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`

	Listing  *FoodListing `gorm:"foreignKey:ListingID"`
	Sender   *User        `gorm:"foreignKey:SenderID"`
	Receiver *User        `gorm:"foreignKey:ReceiverID"`
	Timestamp
}
