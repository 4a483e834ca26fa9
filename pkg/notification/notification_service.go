package notification

import (
	"context"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/logger"
	"FoodBridge-Backend/pkg/user"

	"github.com/google/uuid"
)

const notificationFeedLimit = 50

type (
	// MailSender mirrors notifications to email for users who opted in.
	MailSender interface {
		Send(toEmail string, subject string, body string) error
	}

	NotificationService interface {
		Append(ctx context.Context, userID uuid.UUID, notifType, title, body, link string) error
		GetUserNotifications(ctx context.Context, userID string) ([]*domain.NotificationResponse, error)
		GetUnreadCount(ctx context.Context, userID string) (int64, error)
		MarkRead(ctx context.Context, id string, userID string) error
		MarkAllRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		userRepository         user.UserRepository
		mail                   MailSender
	}
)

func NewNotificationService(notificationRepository NotificationRepository, userRepository user.UserRepository, mail MailSender) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		userRepository:         userRepository,
		mail:                   mail,
	}
}

// Append writes the in-app notification record and, when the target user
// opted in, mirrors it to email. The email leg is best-effort.
func (s *notificationService) Append(ctx context.Context, userID uuid.UUID, notifType, title, body, link string) error {
	notification := &entities.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Link:   link,
		Read:   false,
	}

	if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
		return err
	}

	s.mirrorToEmail(ctx, userID, title, body)
	return nil
}

func (s *notificationService) mirrorToEmail(ctx context.Context, userID uuid.UUID, subject, body string) {
	if s.mail == nil {
		return
	}

	target, err := s.userRepository.GetUserByID(ctx, userID.String())
	if err != nil {
		logger.Log.WithError(err).Warnf("notification email skipped: user %s not found", userID)
		return
	}
	if !target.EmailNotifications {
		return
	}

	if err := s.mail.Send(target.Email, subject, body); err != nil {
		logger.Log.WithError(err).Warnf("failed to send notification email to %s", target.Email)
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string) ([]*domain.NotificationResponse, error) {
	notifications, err := s.notificationRepository.GetUserNotifications(ctx, userID, notificationFeedLimit)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, &domain.NotificationResponse{
			ID:        n.ID.String(),
			UserID:    n.UserID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Body:      n.Body,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	return result, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepository.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) error {
	rows, err := s.notificationRepository.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepository.MarkAllAsRead(ctx, userID)
}
