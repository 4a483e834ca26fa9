package message

import (
	"context"

	"FoodBridge-Backend/entities"

	"gorm.io/gorm"
)

type (
	MessageRepository interface {
		CreateMessage(ctx context.Context, message *entities.Message) error
		GetConversation(ctx context.Context, listingID, userA, userB string) ([]*entities.Message, error)
		GetUserMessages(ctx context.Context, userID string) ([]*entities.Message, error)
		MarkThreadAsRead(ctx context.Context, listingID, senderID, receiverID string) error
		CountUnread(ctx context.Context, userID string) (int64, error)
	}

	messageRepository struct {
		db *gorm.DB
	}
)

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetConversation(ctx context.Context, listingID, userA, userB string) ([]*entities.Message, error) {
	var messages []*entities.Message
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) GetUserMessages(ctx context.Context, userID string) ([]*entities.Message, error) {
	var messages []*entities.Message
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Sender").
		Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkThreadAsRead(ctx context.Context, listingID, senderID, receiverID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("listing_id = ? AND sender_id = ? AND receiver_id = ? AND read = ?", listingID, senderID, receiverID, false).
		Updates(map[string]interface{}{"read": true}).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
