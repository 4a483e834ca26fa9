package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name               string    `json:"name"`
	Email              string    `gorm:"uniqueIndex" json:"email"`
	Password           string    `json:"-"`
	Role               string    `json:"role"` // donor, receiver, volunteer, ngo, admin
	Phone              string    `json:"phone,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	EmailNotifications bool      `gorm:"default:true" json:"email_notifications"`
	IsBanned           bool      `json:"is_banned"`
	BanReason          string    `json:"ban_reason,omitempty"`

	Listings []*FoodListing `gorm:"foreignKey:DonorID"`
	Timestamp
}
