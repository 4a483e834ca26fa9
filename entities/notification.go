package entities

import (
	"github.com/google/uuid"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Type   string    `json:"type"` // e.g. "request_created", "request_approved", "new_message"
	Title  string    `json:"title"`
	Body   string    `json:"body,omitempty"`
	Link   string    `json:"link,omitempty"`
	Read   bool      `json:"read"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
