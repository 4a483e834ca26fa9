package message

import (
	"context"
	"errors"
	"fmt"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/listing"
	"FoodBridge-Backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Notifier pings the recipient when a new message lands.
	Notifier interface {
		Append(ctx context.Context, userID uuid.UUID, notifType, title, body, link string) error
	}

	MessageService interface {
		SendMessage(ctx context.Context, req domain.SendMessageRequest, senderID string) (*domain.MessageResponse, error)
		GetThreads(ctx context.Context, userID string) ([]*domain.MessageThread, error)
		GetConversation(ctx context.Context, listingID, otherUserID, userID string) ([]*domain.MessageResponse, error)
		GetUnreadCount(ctx context.Context, userID string) (int64, error)
	}

	messageService struct {
		messageRepository MessageRepository
		listingRepository listing.ListingRepository
		notifier          Notifier
	}
)

func NewMessageService(messageRepository MessageRepository, listingRepository listing.ListingRepository, notifier Notifier) MessageService {
	return &messageService{
		messageRepository: messageRepository,
		listingRepository: listingRepository,
		notifier:          notifier,
	}
}

func (s *messageService) SendMessage(ctx context.Context, req domain.SendMessageRequest, senderID string) (*domain.MessageResponse, error) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	receiverUUID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	listingUUID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if senderUUID == receiverUUID {
		return nil, domain.ErrMessageToSelf
	}

	foodListing, err := s.listingRepository.GetListingByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	message := &entities.Message{
		ID:         uuid.New(),
		ListingID:  listingUUID,
		SenderID:   senderUUID,
		ReceiverID: receiverUUID,
		Content:    req.Content,
	}

	if err := s.messageRepository.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := s.notifier.Append(ctx, receiverUUID, "new_message", "New message",
		fmt.Sprintf("You have a new message about \"%s\".", foodListing.Title),
		fmt.Sprintf("/messages/%s/%s", req.ListingID, senderID),
	); err != nil {
		logger.Log.WithError(err).
			WithField("message_id", message.ID).
			Warn("failed to deliver new-message notification")
	}

	return toMessageResponse(message), nil
}

// GetThreads folds a user's messages into one entry per listing and
// counterpart, newest first. The fold happens in Go; message volume per
// user is small enough that a window-function query is not worth it.
func (s *messageService) GetThreads(ctx context.Context, userID string) ([]*domain.MessageThread, error) {
	messages, err := s.messageRepository.GetUserMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	type threadKey struct {
		listingID string
		otherID   string
	}

	var order []threadKey
	threads := make(map[threadKey]*domain.MessageThread)

	for _, m := range messages {
		other := m.Sender
		otherID := m.SenderID.String()
		if otherID == userID {
			other = m.Receiver
			otherID = m.ReceiverID.String()
		}

		key := threadKey{listingID: m.ListingID.String(), otherID: otherID}
		thread, ok := threads[key]
		if !ok {
			// Messages arrive newest first, so the first hit per key is
			// the thread's latest message.
			thread = &domain.MessageThread{
				ListingID:     key.listingID,
				OtherUserID:   otherID,
				LastMessage:   m.Content,
				LastMessageAt: m.CreatedAt,
			}
			if m.Listing != nil {
				thread.ListingTitle = m.Listing.Title
			}
			if other != nil {
				thread.OtherUserName = other.Name
			}
			threads[key] = thread
			order = append(order, key)
		}

		if m.ReceiverID.String() == userID && !m.Read {
			thread.UnreadCount++
		}
	}

	result := make([]*domain.MessageThread, 0, len(order))
	for _, key := range order {
		result = append(result, threads[key])
	}
	return result, nil
}

// GetConversation returns the full exchange for one thread and marks the
// other side's messages as read.
func (s *messageService) GetConversation(ctx context.Context, listingID, otherUserID, userID string) ([]*domain.MessageResponse, error) {
	messages, err := s.messageRepository.GetConversation(ctx, listingID, userID, otherUserID)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepository.MarkThreadAsRead(ctx, listingID, otherUserID, userID); err != nil {
		logger.Log.WithError(err).
			WithField("listing_id", listingID).
			Warn("failed to mark message thread as read")
	}

	result := make([]*domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result, nil
}

func (s *messageService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.messageRepository.CountUnread(ctx, userID)
}

func toMessageResponse(message *entities.Message) *domain.MessageResponse {
	return &domain.MessageResponse{
		ID:         message.ID.String(),
		ListingID:  message.ListingID.String(),
		SenderID:   message.SenderID.String(),
		ReceiverID: message.ReceiverID.String(),
		Content:    message.Content,
		Read:       message.Read,
		CreatedAt:  message.CreatedAt,
	}
}
