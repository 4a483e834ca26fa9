package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSendMessage = "message sent successfully"
	MessageSuccessGetThreads  = "message threads retrieved successfully"
	MessageSuccessGetMessages = "messages retrieved successfully"

	MessageFailedSendMessage = "failed to send message"
	MessageFailedGetThreads  = "failed to retrieve message threads"
	MessageFailedGetMessages = "failed to retrieve messages"

	ErrMessageToSelf = errors.New("cannot message yourself")
)

type (
	SendMessageRequest struct {
		ListingID  string `json:"listing_id" validate:"required,uuid"`
		ReceiverID string `json:"receiver_id" validate:"required,uuid"`
		Content    string `json:"content" validate:"required,min=1,max=2000"`
	}

	MessageResponse struct {
		ID         string    `json:"id"`
		ListingID  string    `json:"listing_id"`
		SenderID   string    `json:"sender_id"`
		ReceiverID string    `json:"receiver_id"`
		Content    string    `json:"content"`
		Read       bool      `json:"read"`
		CreatedAt  time.Time `json:"created_at"`
	}

	MessageThread struct {
		ListingID     string    `json:"listing_id"`
		ListingTitle  string    `json:"listing_title"`
		OtherUserID   string    `json:"other_user_id"`
		OtherUserName string    `json:"other_user_name"`
		LastMessage   string    `json:"last_message"`
		LastMessageAt time.Time `json:"last_message_at"`
		UnreadCount   int       `json:"unread_count"`
	}
)
