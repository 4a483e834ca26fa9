package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRequestRepository struct {
	requests  map[string]*entities.PickupRequest
	insertErr error
}

func newFakeRequestRepository() *fakeRequestRepository {
	return &fakeRequestRepository{requests: make(map[string]*entities.PickupRequest)}
}

func (f *fakeRequestRepository) Insert(_ context.Context, request *entities.PickupRequest) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.requests[request.ID.String()] = request
	return nil
}

func (f *fakeRequestRepository) GetByID(_ context.Context, id string) (*entities.PickupRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *request
	return &clone, nil
}

func (f *fakeRequestRepository) UpdateStatus(_ context.Context, id string, expectedPrior, newStatus domain.RequestStatus, extra map[string]interface{}) (int64, error) {
	request, ok := f.requests[id]
	if !ok || request.Status != string(expectedPrior) {
		return 0, nil
	}
	request.Status = string(newStatus)
	if v, ok := extra["self_pickup"].(bool); ok {
		request.SelfPickup = v
	}
	if v, ok := extra["volunteer_id"].(uuid.UUID); ok {
		request.VolunteerID = &v
	}
	return 1, nil
}

func (f *fakeRequestRepository) queryWhere(match func(*entities.PickupRequest) bool) []*entities.PickupRequest {
	var result []*entities.PickupRequest
	for _, request := range f.requests {
		if match(request) {
			clone := *request
			result = append(result, &clone)
		}
	}
	return result
}

func (f *fakeRequestRepository) QueryByReceiver(_ context.Context, receiverID string) ([]*entities.PickupRequest, error) {
	return f.queryWhere(func(r *entities.PickupRequest) bool { return r.ReceiverID.String() == receiverID }), nil
}

func (f *fakeRequestRepository) QueryByDonor(_ context.Context, donorID string) ([]*entities.PickupRequest, error) {
	return f.queryWhere(func(r *entities.PickupRequest) bool {
		return r.Listing != nil && r.Listing.DonorID.String() == donorID
	}), nil
}

func (f *fakeRequestRepository) QueryByVolunteer(_ context.Context, volunteerID string) ([]*entities.PickupRequest, error) {
	return f.queryWhere(func(r *entities.PickupRequest) bool {
		return r.VolunteerID != nil && r.VolunteerID.String() == volunteerID
	}), nil
}

func (f *fakeRequestRepository) QueryByStatus(_ context.Context, status domain.RequestStatus) ([]*entities.PickupRequest, error) {
	return f.queryWhere(func(r *entities.PickupRequest) bool { return r.Status == string(status) }), nil
}

func (f *fakeRequestRepository) QueryAll(_ context.Context) ([]*entities.PickupRequest, error) {
	return f.queryWhere(func(*entities.PickupRequest) bool { return true }), nil
}

func (f *fakeRequestRepository) countCompleted(match func(*entities.PickupRequest) bool) int64 {
	var count int64
	for _, request := range f.requests {
		if request.Status != string(domain.RequestDelivered) && request.Status != string(domain.RequestConfirmed) {
			continue
		}
		if match(request) {
			count++
		}
	}
	return count
}

func (f *fakeRequestRepository) CountCompletedByDonor(_ context.Context, donorID string) (int64, error) {
	return f.countCompleted(func(r *entities.PickupRequest) bool {
		return r.Listing != nil && r.Listing.DonorID.String() == donorID
	}), nil
}

func (f *fakeRequestRepository) CountCompletedByReceiver(_ context.Context, receiverID string) (int64, error) {
	return f.countCompleted(func(r *entities.PickupRequest) bool { return r.ReceiverID.String() == receiverID }), nil
}

func (f *fakeRequestRepository) CountCompletedByVolunteer(_ context.Context, volunteerID string) (int64, error) {
	return f.countCompleted(func(r *entities.PickupRequest) bool {
		return r.VolunteerID != nil && r.VolunteerID.String() == volunteerID
	}), nil
}

func (f *fakeRequestRepository) CountCompletedAll(_ context.Context) (int64, error) {
	return f.countCompleted(func(*entities.PickupRequest) bool { return true }), nil
}

type fakeListingRepository struct {
	listings map[string]*entities.FoodListing
}

func newFakeListingRepository() *fakeListingRepository {
	return &fakeListingRepository{listings: make(map[string]*entities.FoodListing)}
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
	clone := *listing
	return &clone, nil
}

func (f *fakeListingRepository) UpdateListing(_ context.Context, listing *entities.FoodListing) error {
	f.listings[listing.ID.String()] = listing
	return nil
}

func (f *fakeListingRepository) DeleteListing(_ context.Context, id string) error {
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepository) GetListings(_ context.Context, _, _ string, _, _ int) ([]*entities.FoodListing, int64, error) {
	return nil, 0, nil
}

func (f *fakeListingRepository) GetListingsByDonor(_ context.Context, _ string) ([]*entities.FoodListing, error) {
	return nil, nil
}

func (f *fakeListingRepository) GetNearbyListings(_ context.Context, _, _, _ float64) ([]*entities.FoodListing, error) {
	return nil, nil
}

func (f *fakeListingRepository) UpdateImageURL(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeListingRepository) UpdateStatusIf(_ context.Context, id string, from, to domain.ListingStatus) (int64, error) {
	listing, ok := f.listings[id]
	if !ok || listing.Status != string(from) {
		return 0, nil
	}
	listing.Status = string(to)
	return 1, nil
}

func (f *fakeListingRepository) ExpireOverdue(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeListingRepository) CountByDonor(_ context.Context, donorID string) (int64, error) {
	var count int64
	for _, listing := range f.listings {
		if listing.DonorID.String() == donorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeListingRepository) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.listings)), nil
}

type sentNotification struct {
	UserID uuid.UUID
	Type   string
	Title  string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Append(_ context.Context, userID uuid.UUID, notifType, title, _, _ string) error {
	f.sent = append(f.sent, sentNotification{UserID: userID, Type: notifType, Title: title})
	return f.err
}

type fixture struct {
	service     RequestService
	requests    *fakeRequestRepository
	listings    *fakeListingRepository
	notifier    *fakeNotifier
	donor       domain.Actor
	receiver    domain.Actor
	volunteer   domain.Actor
	listing     *entities.FoodListing
	donorID     uuid.UUID
	receiverID  uuid.UUID
	volunteerID uuid.UUID
}

func newFixture() *fixture {
	donorID := uuid.New()
	receiverID := uuid.New()
	volunteerID := uuid.New()

	listings := newFakeListingRepository()
	foodListing := &entities.FoodListing{
		ID:      uuid.New(),
		DonorID: donorID,
		Title:   "Leftover lasagna",
		Status:  string(domain.ListingAvailable),
	}
	listings.listings[foodListing.ID.String()] = foodListing

	requests := newFakeRequestRepository()
	notifier := &fakeNotifier{}

	return &fixture{
		service:     NewRequestService(requests, listings, notifier),
		requests:    requests,
		listings:    listings,
		notifier:    notifier,
		donor:       domain.Actor{ID: donorID.String(), Role: domain.RoleDonor},
		receiver:    domain.Actor{ID: receiverID.String(), Role: domain.RoleReceiver},
		volunteer:   domain.Actor{ID: volunteerID.String(), Role: domain.RoleVolunteer},
		listing:     foodListing,
		donorID:     donorID,
		receiverID:  receiverID,
		volunteerID: volunteerID,
	}
}

func (f *fixture) createRequest(t *testing.T) *domain.PickupRequestResponse {
	t.Helper()
	res, err := f.service.CreateRequest(context.Background(), domain.CreatePickupRequest{
		ListingID: f.listing.ID.String(),
	}, f.receiver.ID)
	require.NoError(t, err)
	return res
}

func TestCreateRequest(t *testing.T) {
	f := newFixture()

	res := f.createRequest(t)

	assert.Equal(t, string(domain.RequestPending), res.Status)
	assert.Equal(t, string(domain.ListingClaimed), f.listing.Status)
	require.NotNil(t, res.Listing)
	assert.Equal(t, "Leftover lasagna", res.Listing.Title)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.donorID, f.notifier.sent[0].UserID)
	assert.Equal(t, string(TransitionCreateRequest), f.notifier.sent[0].Type)
}

func TestCreateRequestOwnListing(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateRequest(context.Background(), domain.CreatePickupRequest{
		ListingID: f.listing.ID.String(),
	}, f.donor.ID)

	assert.ErrorIs(t, err, domain.ErrRequestOwnListing)
	assert.Equal(t, string(domain.ListingAvailable), f.listing.Status)
}

func TestCreateRequestListingAlreadyClaimed(t *testing.T) {
	f := newFixture()
	f.createRequest(t)

	_, err := f.service.CreateRequest(context.Background(), domain.CreatePickupRequest{
		ListingID: f.listing.ID.String(),
	}, uuid.New().String())

	assert.ErrorIs(t, err, domain.ErrListingNotAvailable)
}

func TestCreateRequestInsertFailureReleasesClaim(t *testing.T) {
	f := newFixture()
	f.requests.insertErr = errors.New("insert failed")

	_, err := f.service.CreateRequest(context.Background(), domain.CreatePickupRequest{
		ListingID: f.listing.ID.String(),
	}, f.receiver.ID)

	require.Error(t, err)
	assert.Equal(t, string(domain.ListingAvailable), f.listing.Status)
}

func TestVolunteerDeliveryFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	res, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestDonorApproved), res.Status)

	res, err = f.service.RequestVolunteer(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestVolunteerRequested), res.Status)

	res, err = f.service.VolunteerAccept(ctx, res.ID, f.volunteer)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestVolunteerAccepted), res.Status)
	require.NotNil(t, res.VolunteerID)
	assert.Equal(t, f.volunteer.ID, *res.VolunteerID)

	res, err = f.service.VolunteerPickedUp(ctx, res.ID, f.volunteer)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestPickedUp), res.Status)

	res, err = f.service.VolunteerDelivered(ctx, res.ID, f.volunteer)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestDelivered), res.Status)

	res, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestConfirmed), res.Status)
	assert.Equal(t, string(domain.ListingCompleted), f.listing.Status)

	// confirm notifies both the donor and the volunteer
	var confirmRecipients []uuid.UUID
	for _, n := range f.notifier.sent {
		if n.Type == string(TransitionConfirm) {
			confirmRecipients = append(confirmRecipients, n.UserID)
		}
	}
	assert.ElementsMatch(t, []uuid.UUID{f.donorID, f.volunteerID}, confirmRecipients)
}

func TestSelfPickupFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)

	res, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestPickedUp), res.Status)
	assert.True(t, res.SelfPickup)

	// self pickups confirm straight from picked_up
	res, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestConfirmed), res.Status)
	assert.Equal(t, string(domain.ListingCompleted), f.listing.Status)
}

func TestDonorApproveRequiresDonor(t *testing.T) {
	f := newFixture()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(context.Background(), res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)

	// admin passes the gate
	_, err = f.service.DonorApprove(context.Background(), res.ID, domain.Actor{ID: uuid.New().String(), Role: domain.RoleAdmin})
	assert.NoError(t, err)
}

func TestDonorApproveTwiceIsStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)

	_, err = f.service.DonorApprove(ctx, res.ID, f.donor)
	assert.ErrorIs(t, err, domain.ErrStaleState)
}

func TestCancelReleasesListing(t *testing.T) {
	f := newFixture()
	res := f.createRequest(t)

	cancelled, err := f.service.Cancel(context.Background(), res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCancelled), cancelled.Status)
	assert.Equal(t, string(domain.ListingAvailable), f.listing.Status)
}

func TestDonorRejectReleasesListing(t *testing.T) {
	f := newFixture()
	res := f.createRequest(t)

	rejected, err := f.service.DonorReject(context.Background(), res.ID, f.donor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestCancelled), rejected.Status)
	assert.Equal(t, string(domain.ListingAvailable), f.listing.Status)
}

func TestCancelAfterPickupIsStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrStaleState)
	assert.Equal(t, string(domain.ListingClaimed), f.listing.Status)
}

func TestVolunteerAcceptRejectsParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.RequestVolunteer(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	_, err = f.service.VolunteerAccept(ctx, res.ID, domain.Actor{ID: f.receiver.ID, Role: domain.RoleVolunteer})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)

	_, err = f.service.VolunteerAccept(ctx, res.ID, domain.Actor{ID: f.donor.ID, Role: domain.RoleVolunteer})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)

	_, err = f.service.VolunteerAccept(ctx, res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)
}

func TestVolunteerPickedUpRequiresAssignedVolunteer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.RequestVolunteer(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	_, err = f.service.VolunteerAccept(ctx, res.ID, f.volunteer)
	require.NoError(t, err)

	other := domain.Actor{ID: uuid.New().String(), Role: domain.RoleVolunteer}
	_, err = f.service.VolunteerPickedUp(ctx, res.ID, other)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)
}

func TestVolunteerDeliveredRejectsSelfPickup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	admin := domain.Actor{ID: uuid.New().String(), Role: domain.RoleAdmin}
	_, err = f.service.VolunteerDelivered(ctx, res.ID, admin)
	assert.ErrorIs(t, err, domain.ErrStaleState)
}

func TestReceiverConfirmBeforeDeliveryIsStale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)

	_, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrStaleState)
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")

	res := f.createRequest(t)

	approved, err := f.service.DonorApprove(context.Background(), res.ID, f.donor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestDonorApproved), approved.Status)
}

func TestGetRequestByIDGatesOutsiders(t *testing.T) {
	f := newFixture()
	res := f.createRequest(t)

	_, err := f.service.GetRequestByID(context.Background(), res.ID, domain.Actor{ID: uuid.New().String(), Role: domain.RoleReceiver})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRequestAccess)

	_, err = f.service.GetRequestByID(context.Background(), res.ID, f.donor)
	assert.NoError(t, err)
}

func TestConfirmedRequestAbsorbsFurtherTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	_, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	admin := domain.Actor{ID: uuid.New().String(), Role: domain.RoleAdmin}
	_, err = f.service.DonorApprove(ctx, res.ID, admin)
	assert.ErrorIs(t, err, domain.ErrStaleState)

	_, err = f.service.Cancel(ctx, res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrStaleState)

	_, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	assert.ErrorIs(t, err, domain.ErrStaleState)

	// the completed listing stays completed
	assert.Equal(t, string(domain.ListingCompleted), f.listing.Status)
}

func TestGetPendingRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	pending, err := f.service.GetPendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, res.ID, pending[0].ID)

	_, err = f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)

	pending, err = f.service.GetPendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGetAllRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.Cancel(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	// cancelled requests still show up in the admin view
	all, err := f.service.GetAllRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, string(domain.RequestCancelled), all[0].Status)
}

func TestReceiverConfirmSucceedsWhenListingAlreadyMoved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	// something outside the engine moved the listing off claimed
	f.listing.Status = string(domain.ListingExpired)

	confirmed, err := f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RequestConfirmed), confirmed.Status)
	assert.Equal(t, string(domain.ListingExpired), f.listing.Status)
}

func TestGetImpactStatsDonor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.createRequest(t)

	_, err := f.service.DonorApprove(ctx, res.ID, f.donor)
	require.NoError(t, err)
	_, err = f.service.ReceiverSelfPickup(ctx, res.ID, f.receiver)
	require.NoError(t, err)
	_, err = f.service.ReceiverConfirm(ctx, res.ID, f.receiver)
	require.NoError(t, err)

	stats, err := f.service.GetImpactStats(ctx, f.donor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalListings)
	assert.Equal(t, int64(1), stats.CompletedDeliveries)
	assert.Equal(t, int64(4), stats.EstimatedMeals)
	assert.InDelta(t, 2.5, stats.EstimatedKgSaved, 0.001)
	assert.InDelta(t, 6.25, stats.CO2Saved, 0.001)
}
