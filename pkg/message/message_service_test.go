package message

import (
	"context"
	"testing"
	"time"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMessageRepository struct {
	messages []*entities.Message
}

func (f *fakeMessageRepository) CreateMessage(_ context.Context, message *entities.Message) error {
	// prepend so reads come back newest first, like the real query
	f.messages = append([]*entities.Message{message}, f.messages...)
	return nil
}

func (f *fakeMessageRepository) GetConversation(_ context.Context, listingID, userA, userB string) ([]*entities.Message, error) {
	var result []*entities.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.ListingID.String() != listingID {
			continue
		}
		pair := (m.SenderID.String() == userA && m.ReceiverID.String() == userB) ||
			(m.SenderID.String() == userB && m.ReceiverID.String() == userA)
		if pair {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeMessageRepository) GetUserMessages(_ context.Context, userID string) ([]*entities.Message, error) {
	var result []*entities.Message
	for _, m := range f.messages {
		if m.SenderID.String() == userID || m.ReceiverID.String() == userID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeMessageRepository) MarkThreadAsRead(_ context.Context, listingID, senderID, receiverID string) error {
	for _, m := range f.messages {
		if m.ListingID.String() == listingID &&
			m.SenderID.String() == senderID &&
			m.ReceiverID.String() == receiverID {
			m.Read = true
		}
	}
	return nil
}

func (f *fakeMessageRepository) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, m := range f.messages {
		if m.ReceiverID.String() == userID && !m.Read {
			count++
		}
	}
	return count, nil
}

type fakeListingRepository struct {
	listings map[string]*entities.FoodListing
}

func (f *fakeListingRepository) CreateListing(_ context.Context, listing *entities.FoodListing) error {
	f.listings[listing.ID.String()] = listing
	return nil
}

func (f *fakeListingRepository) GetListingByID(_ context.Context, id string) (*entities.FoodListing, error) {
	listing, ok := f.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return listing, nil
}

func (f *fakeListingRepository) UpdateListing(_ context.Context, _ *entities.FoodListing) error {
	return nil
}

func (f *fakeListingRepository) DeleteListing(_ context.Context, _ string) error { return nil }

func (f *fakeListingRepository) GetListings(_ context.Context, _, _ string, _, _ int) ([]*entities.FoodListing, int64, error) {
	return nil, 0, nil
}

func (f *fakeListingRepository) GetListingsByDonor(_ context.Context, _ string) ([]*entities.FoodListing, error) {
	return nil, nil
}

func (f *fakeListingRepository) GetNearbyListings(_ context.Context, _, _, _ float64) ([]*entities.FoodListing, error) {
	return nil, nil
}

func (f *fakeListingRepository) UpdateImageURL(_ context.Context, _, _ string) error { return nil }

func (f *fakeListingRepository) UpdateStatusIf(_ context.Context, _ string, _, _ domain.ListingStatus) (int64, error) {
	return 0, nil
}

func (f *fakeListingRepository) ExpireOverdue(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeListingRepository) CountByDonor(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeListingRepository) CountAll(_ context.Context) (int64, error) { return 0, nil }

type recordedNotification struct {
	UserID uuid.UUID
	Type   string
}

type fakeNotifier struct {
	sent []recordedNotification
}

func (f *fakeNotifier) Append(_ context.Context, userID uuid.UUID, notifType, _, _, _ string) error {
	f.sent = append(f.sent, recordedNotification{UserID: userID, Type: notifType})
	return nil
}

type msgFixture struct {
	service  MessageService
	repo     *fakeMessageRepository
	notifier *fakeNotifier
	listing  *entities.FoodListing
	donorID  uuid.UUID
	userID   uuid.UUID
}

func newMsgFixture() *msgFixture {
	donorID := uuid.New()
	userID := uuid.New()

	listing := &entities.FoodListing{
		ID:      uuid.New(),
		DonorID: donorID,
		Title:   "Veggie curry",
		Status:  string(domain.ListingAvailable),
	}
	listings := &fakeListingRepository{listings: map[string]*entities.FoodListing{listing.ID.String(): listing}}

	repo := &fakeMessageRepository{}
	notifier := &fakeNotifier{}

	return &msgFixture{
		service:  NewMessageService(repo, listings, notifier),
		repo:     repo,
		notifier: notifier,
		listing:  listing,
		donorID:  donorID,
		userID:   userID,
	}
}

func TestSendMessage(t *testing.T) {
	f := newMsgFixture()

	res, err := f.service.SendMessage(context.Background(), domain.SendMessageRequest{
		ListingID:  f.listing.ID.String(),
		ReceiverID: f.donorID.String(),
		Content:    "Is this still available?",
	}, f.userID.String())

	require.NoError(t, err)
	assert.Equal(t, "Is this still available?", res.Content)
	assert.False(t, res.Read)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.donorID, f.notifier.sent[0].UserID)
	assert.Equal(t, "new_message", f.notifier.sent[0].Type)
}

func TestSendMessageToSelf(t *testing.T) {
	f := newMsgFixture()

	_, err := f.service.SendMessage(context.Background(), domain.SendMessageRequest{
		ListingID:  f.listing.ID.String(),
		ReceiverID: f.userID.String(),
		Content:    "hi",
	}, f.userID.String())

	assert.ErrorIs(t, err, domain.ErrMessageToSelf)
}

func TestSendMessageUnknownListing(t *testing.T) {
	f := newMsgFixture()

	_, err := f.service.SendMessage(context.Background(), domain.SendMessageRequest{
		ListingID:  uuid.New().String(),
		ReceiverID: f.donorID.String(),
		Content:    "hi",
	}, f.userID.String())

	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestGetThreadsFoldsConversations(t *testing.T) {
	f := newMsgFixture()
	ctx := context.Background()

	send := func(content, sender, receiver string) {
		_, err := f.service.SendMessage(ctx, domain.SendMessageRequest{
			ListingID:  f.listing.ID.String(),
			ReceiverID: receiver,
			Content:    content,
		}, sender)
		require.NoError(t, err)
	}

	send("Is this still available?", f.userID.String(), f.donorID.String())
	send("Yes, come by at six.", f.donorID.String(), f.userID.String())
	send("Great, see you then.", f.userID.String(), f.donorID.String())

	threads, err := f.service.GetThreads(ctx, f.donorID.String())
	require.NoError(t, err)
	require.Len(t, threads, 1)

	thread := threads[0]
	assert.Equal(t, f.listing.ID.String(), thread.ListingID)
	assert.Equal(t, f.userID.String(), thread.OtherUserID)
	assert.Equal(t, "Great, see you then.", thread.LastMessage)
	assert.Equal(t, 2, thread.UnreadCount)
}

func TestGetConversationMarksRead(t *testing.T) {
	f := newMsgFixture()
	ctx := context.Background()

	_, err := f.service.SendMessage(ctx, domain.SendMessageRequest{
		ListingID:  f.listing.ID.String(),
		ReceiverID: f.donorID.String(),
		Content:    "Is this still available?",
	}, f.userID.String())
	require.NoError(t, err)

	messages, err := f.service.GetConversation(ctx, f.listing.ID.String(), f.userID.String(), f.donorID.String())
	require.NoError(t, err)
	require.Len(t, messages, 1)

	count, err := f.service.GetUnreadCount(ctx, f.donorID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
