package request

import (
	"context"
	"errors"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/pkg/listing"
	"FoodBridge-Backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Notifier is the slice of the notification service the engine needs.
	// Fan-out failures are logged here and never fail a transition.
	Notifier interface {
		Append(ctx context.Context, userID uuid.UUID, notifType, title, body, link string) error
	}

	RequestService interface {
		CreateRequest(ctx context.Context, req domain.CreatePickupRequest, receiverID string) (*domain.PickupRequestResponse, error)
		GetRequestByID(ctx context.Context, id string, actor domain.Actor) (*domain.PickupRequestResponse, error)

		DonorApprove(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		DonorReject(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		Cancel(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		ReceiverSelfPickup(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		RequestVolunteer(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		VolunteerAccept(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		VolunteerPickedUp(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		VolunteerDelivered(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)
		ReceiverConfirm(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error)

		GetMyRequests(ctx context.Context, receiverID string) ([]*domain.PickupRequestResponse, error)
		GetIncomingRequests(ctx context.Context, donorID string) ([]*domain.PickupRequestResponse, error)
		GetMyDeliveries(ctx context.Context, volunteerID string) ([]*domain.PickupRequestResponse, error)
		GetOpenDeliveries(ctx context.Context) ([]*domain.PickupRequestResponse, error)
		GetPendingRequests(ctx context.Context) ([]*domain.PickupRequestResponse, error)
		GetAllRequests(ctx context.Context) ([]*domain.PickupRequestResponse, error)

		GetImpactStats(ctx context.Context, actor domain.Actor) (*domain.ImpactStats, error)
	}

	requestService struct {
		requestRepository RequestRepository
		listingRepository listing.ListingRepository
		notifier          Notifier
	}
)

// Impact estimates, per completed delivery. One listing feeds roughly
// four people; a meal averages 2.5 kg of food saved, and every kg kept
// out of landfill avoids about 2.5 kg of CO2.
const (
	mealsPerDelivery = 4
	kgPerDelivery    = 2.5
	co2PerKg         = 2.5
)

func NewRequestService(requestRepository RequestRepository, listingRepository listing.ListingRepository, notifier Notifier) RequestService {
	return &requestService{
		requestRepository: requestRepository,
		listingRepository: listingRepository,
		notifier:          notifier,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, req domain.CreatePickupRequest, receiverID string) (*domain.PickupRequestResponse, error) {
	receiverUUID, err := uuid.Parse(receiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	listingUUID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	foodListing, err := s.listingRepository.GetListingByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	if foodListing.DonorID == receiverUUID {
		return nil, domain.ErrRequestOwnListing
	}

	// Claim the listing first: the conditional write is what prevents two
	// receivers from requesting the same food.
	rows, err := s.listingRepository.UpdateStatusIf(ctx, req.ListingID, domain.ListingAvailable, domain.ListingClaimed)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrListingNotAvailable
	}

	pickupRequest := &entities.PickupRequest{
		ID:         uuid.New(),
		ListingID:  listingUUID,
		ReceiverID: receiverUUID,
		Status:     string(domain.RequestPending),
		Note:       req.Note,
	}

	if err := s.requestRepository.Insert(ctx, pickupRequest); err != nil {
		// Release the claim so the listing is not stranded.
		if _, releaseErr := s.listingRepository.UpdateStatusIf(ctx, req.ListingID, domain.ListingClaimed, domain.ListingAvailable); releaseErr != nil {
			logger.Log.WithError(releaseErr).
				WithField("listing_id", req.ListingID).
				Error("failed to release listing claim after request insert failure")
		}
		return nil, err
	}
	pickupRequest.Listing = foodListing

	s.notify(ctx, TransitionCreateRequest, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) GetRequestByID(ctx context.Context, id string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.isParticipant(pickupRequest, actor) {
		return nil, domain.ErrUnauthorizedRequestAccess
	}
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) DonorApprove(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateDonor(pickupRequest, actor); err != nil {
		return nil, err
	}

	if err := s.advance(ctx, pickupRequest, domain.RequestPending, domain.RequestDonorApproved, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, TransitionDonorApprove, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) DonorReject(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	return s.terminate(ctx, requestID, actor, TransitionDonorReject)
}

func (s *requestService) Cancel(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	return s.terminate(ctx, requestID, actor, TransitionCancel)
}

// terminate handles the two cancellation edges. Both are only legal
// before any food moves, and both hand the listing back.
func (s *requestService) terminate(ctx context.Context, requestID string, actor domain.Actor, trigger TransitionName) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if trigger == TransitionDonorReject {
		if err := s.gateDonor(pickupRequest, actor); err != nil {
			return nil, err
		}
	} else {
		if err := s.gateReceiver(pickupRequest, actor); err != nil {
			return nil, err
		}
	}

	prior := domain.RequestStatus(pickupRequest.Status)
	if prior != domain.RequestPending && prior != domain.RequestDonorApproved {
		return nil, domain.ErrStaleState
	}

	if err := s.advance(ctx, pickupRequest, prior, domain.RequestCancelled, nil); err != nil {
		return nil, err
	}

	s.releaseListing(ctx, pickupRequest.ListingID.String())
	s.notify(ctx, trigger, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) ReceiverSelfPickup(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateReceiver(pickupRequest, actor); err != nil {
		return nil, err
	}

	extra := map[string]interface{}{"self_pickup": true}
	if err := s.advance(ctx, pickupRequest, domain.RequestDonorApproved, domain.RequestPickedUp, extra); err != nil {
		return nil, err
	}
	pickupRequest.SelfPickup = true

	s.notify(ctx, TransitionSelfPickup, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) RequestVolunteer(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateReceiver(pickupRequest, actor); err != nil {
		return nil, err
	}

	if err := s.advance(ctx, pickupRequest, domain.RequestDonorApproved, domain.RequestVolunteerRequested, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, TransitionRequestVolunteer, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) VolunteerAccept(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	volunteerUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleVolunteer && !actor.IsAdmin() {
		return nil, domain.ErrUnauthorizedRequestAccess
	}
	// The receiver and the donor cannot courier their own pickup.
	if pickupRequest.ReceiverID == volunteerUUID ||
		(pickupRequest.Listing != nil && pickupRequest.Listing.DonorID == volunteerUUID) {
		return nil, domain.ErrUnauthorizedRequestAccess
	}

	extra := map[string]interface{}{"volunteer_id": volunteerUUID}
	if err := s.advance(ctx, pickupRequest, domain.RequestVolunteerRequested, domain.RequestVolunteerAccepted, extra); err != nil {
		return nil, err
	}
	pickupRequest.VolunteerID = &volunteerUUID

	s.notify(ctx, TransitionVolunteerAccept, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) VolunteerPickedUp(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateVolunteer(pickupRequest, actor); err != nil {
		return nil, err
	}

	if err := s.advance(ctx, pickupRequest, domain.RequestVolunteerAccepted, domain.RequestPickedUp, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, TransitionPickedUp, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) VolunteerDelivered(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateVolunteer(pickupRequest, actor); err != nil {
		return nil, err
	}
	// Self pickups never pass through delivered.
	if pickupRequest.SelfPickup {
		return nil, domain.ErrStaleState
	}

	if err := s.advance(ctx, pickupRequest, domain.RequestPickedUp, domain.RequestDelivered, nil); err != nil {
		return nil, err
	}

	s.notify(ctx, TransitionDelivered, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) ReceiverConfirm(ctx context.Context, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	pickupRequest, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.gateReceiver(pickupRequest, actor); err != nil {
		return nil, err
	}

	// Two roads lead here: a volunteer delivery, or a self pickup that
	// skips the delivered stage entirely.
	prior := domain.RequestStatus(pickupRequest.Status)
	switch {
	case prior == domain.RequestDelivered:
	case prior == domain.RequestPickedUp && pickupRequest.SelfPickup:
	default:
		return nil, domain.ErrStaleState
	}

	if err := s.advance(ctx, pickupRequest, prior, domain.RequestConfirmed, nil); err != nil {
		return nil, err
	}

	rows, err := s.listingRepository.UpdateStatusIf(ctx, pickupRequest.ListingID.String(), domain.ListingClaimed, domain.ListingCompleted)
	if err != nil {
		logger.Log.WithError(err).
			WithField("listing_id", pickupRequest.ListingID).
			Error("failed to complete listing after confirmed delivery")
	} else if rows == 0 {
		// An active request implies a claimed listing; a miss here means
		// something else moved the listing and needs looking at.
		logger.Log.WithField("listing_id", pickupRequest.ListingID).
			Warn("listing was not claimed when delivery was confirmed")
	}

	s.notify(ctx, TransitionConfirm, pickupRequest)
	return toRequestResponse(pickupRequest), nil
}

func (s *requestService) GetMyRequests(ctx context.Context, receiverID string) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *requestService) GetIncomingRequests(ctx context.Context, donorID string) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *requestService) GetMyDeliveries(ctx context.Context, volunteerID string) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

// GetOpenDeliveries lists requests waiting for any volunteer to accept.
func (s *requestService) GetOpenDeliveries(ctx context.Context) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryByStatus(ctx, domain.RequestVolunteerRequested)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

// GetPendingRequests lists every request still awaiting donor review.
func (s *requestService) GetPendingRequests(ctx context.Context) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryByStatus(ctx, domain.RequestPending)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *requestService) GetAllRequests(ctx context.Context) ([]*domain.PickupRequestResponse, error) {
	requests, err := s.requestRepository.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *requestService) GetImpactStats(ctx context.Context, actor domain.Actor) (*domain.ImpactStats, error) {
	var (
		listings  int64
		completed int64
		err       error
	)

	switch actor.Role {
	case domain.RoleDonor:
		if listings, err = s.listingRepository.CountByDonor(ctx, actor.ID); err != nil {
			return nil, err
		}
		if completed, err = s.requestRepository.CountCompletedByDonor(ctx, actor.ID); err != nil {
			return nil, err
		}
	case domain.RoleReceiver, domain.RoleNGO:
		if completed, err = s.requestRepository.CountCompletedByReceiver(ctx, actor.ID); err != nil {
			return nil, err
		}
	case domain.RoleVolunteer:
		if completed, err = s.requestRepository.CountCompletedByVolunteer(ctx, actor.ID); err != nil {
			return nil, err
		}
	default:
		if listings, err = s.listingRepository.CountAll(ctx); err != nil {
			return nil, err
		}
		if completed, err = s.requestRepository.CountCompletedAll(ctx); err != nil {
			return nil, err
		}
	}

	kgSaved := float64(completed) * kgPerDelivery
	return &domain.ImpactStats{
		TotalListings:       listings,
		CompletedDeliveries: completed,
		EstimatedMeals:      completed * mealsPerDelivery,
		EstimatedKgSaved:    kgSaved,
		CO2Saved:            kgSaved * co2PerKg,
	}, nil
}

// getRequest loads the request with its listing and normalizes the
// not-found error.
func (s *requestService) getRequest(ctx context.Context, id string) (*entities.PickupRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParseUUID
	}
	pickupRequest, err := s.requestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	if _, err := domain.ParseRequestStatus(pickupRequest.Status); err != nil {
		return nil, err
	}
	return pickupRequest, nil
}

// advance is the optimistic transition write. The expected prior status
// rides in the WHERE clause; losing the race surfaces as ErrStaleState,
// never as a silent overwrite.
func (s *requestService) advance(ctx context.Context, pickupRequest *entities.PickupRequest, from, to domain.RequestStatus, extra map[string]interface{}) error {
	rows, err := s.requestRepository.UpdateStatus(ctx, pickupRequest.ID.String(), from, to, extra)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrStaleState
	}
	pickupRequest.Status = string(to)
	return nil
}

func (s *requestService) releaseListing(ctx context.Context, listingID string) {
	if _, err := s.listingRepository.UpdateStatusIf(ctx, listingID, domain.ListingClaimed, domain.ListingAvailable); err != nil {
		logger.Log.WithError(err).
			WithField("listing_id", listingID).
			Error("failed to release listing after cancellation")
	}
}

func (s *requestService) gateDonor(pickupRequest *entities.PickupRequest, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if pickupRequest.Listing == nil || pickupRequest.Listing.DonorID.String() != actor.ID {
		return domain.ErrUnauthorizedRequestAccess
	}
	return nil
}

func (s *requestService) gateReceiver(pickupRequest *entities.PickupRequest, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if pickupRequest.ReceiverID.String() != actor.ID {
		return domain.ErrUnauthorizedRequestAccess
	}
	return nil
}

func (s *requestService) gateVolunteer(pickupRequest *entities.PickupRequest, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if pickupRequest.VolunteerID == nil {
		return domain.ErrVolunteerRequired
	}
	if pickupRequest.VolunteerID.String() != actor.ID {
		return domain.ErrUnauthorizedRequestAccess
	}
	return nil
}

func (s *requestService) isParticipant(pickupRequest *entities.PickupRequest, actor domain.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if pickupRequest.ReceiverID.String() == actor.ID {
		return true
	}
	if pickupRequest.VolunteerID != nil && pickupRequest.VolunteerID.String() == actor.ID {
		return true
	}
	if pickupRequest.Listing != nil && pickupRequest.Listing.DonorID.String() == actor.ID {
		return true
	}
	return false
}

// notify fans the transition out to everyone the rule table names. The
// transition has already committed; delivery problems are logged only.
func (s *requestService) notify(ctx context.Context, trigger TransitionName, pickupRequest *entities.PickupRequest) {
	data := RuleData{
		RequestID: pickupRequest.ID.String(),
		ListingID: pickupRequest.ListingID.String(),
	}
	if pickupRequest.Listing != nil {
		data.ListingTitle = pickupRequest.Listing.Title
	}

	for _, rule := range RulesFor(trigger) {
		var recipient uuid.UUID
		switch rule.Recipient {
		case RecipientDonor:
			if pickupRequest.Listing == nil {
				continue
			}
			recipient = pickupRequest.Listing.DonorID
		case RecipientReceiver:
			recipient = pickupRequest.ReceiverID
		case RecipientVolunteer:
			if pickupRequest.VolunteerID == nil {
				continue
			}
			recipient = *pickupRequest.VolunteerID
		default:
			continue
		}

		if err := s.notifier.Append(ctx, recipient, string(trigger), rule.Title, rule.Body(data), rule.Link(data)); err != nil {
			logger.Log.WithError(err).
				WithField("request_id", pickupRequest.ID).
				WithField("recipient", recipient).
				Warn("failed to deliver transition notification")
		}
	}
}

func toRequestResponse(pickupRequest *entities.PickupRequest) *domain.PickupRequestResponse {
	status := domain.RequestStatus(pickupRequest.Status)
	resp := &domain.PickupRequestResponse{
		ID:          pickupRequest.ID.String(),
		ListingID:   pickupRequest.ListingID.String(),
		ReceiverID:  pickupRequest.ReceiverID.String(),
		Status:      pickupRequest.Status,
		StatusLabel: status.Label(),
		StatusColor: status.Color(),
		Note:        pickupRequest.Note,
		SelfPickup:  pickupRequest.SelfPickup,
		CreatedAt:   pickupRequest.CreatedAt,
		UpdatedAt:   pickupRequest.UpdatedAt,
	}
	if pickupRequest.VolunteerID != nil {
		volunteerID := pickupRequest.VolunteerID.String()
		resp.VolunteerID = &volunteerID
	}
	if pickupRequest.Listing != nil {
		resp.Listing = &domain.ListingSummary{
			ID:            pickupRequest.Listing.ID.String(),
			Title:         pickupRequest.Listing.Title,
			PickupAddress: pickupRequest.Listing.PickupAddress,
			ImageURL:      pickupRequest.Listing.ImageURL,
			DonorID:       pickupRequest.Listing.DonorID.String(),
			Status:        pickupRequest.Listing.Status,
		}
	}
	return resp
}

func toRequestResponses(requests []*entities.PickupRequest) []*domain.PickupRequestResponse {
	result := make([]*domain.PickupRequestResponse, 0, len(requests))
	for _, pickupRequest := range requests {
		result = append(result, toRequestResponse(pickupRequest))
	}
	return result
}
