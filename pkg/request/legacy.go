package request

import (
	"context"

	"FoodBridge-Backend/domain"
)

// Aliases for the superseded five-state request model. Old API clients
// still send the coarse statuses; each one maps onto exactly one edge of
// the current graph.

// AcceptRequest is the old volunteer-claims-a-delivery call.
//
// Deprecated: use VolunteerAccept.
func AcceptRequest(ctx context.Context, s RequestService, requestID string, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	return s.VolunteerAccept(ctx, requestID, actor)
}

// UpdateRequestStatus maps a coarse legacy status onto the transition it
// stood for. "accepted" arrives from clients that predate the volunteer
// flow and behaves like a donor approval.
//
// Deprecated: call the specific transition method.
func UpdateRequestStatus(ctx context.Context, s RequestService, requestID string, status domain.RequestStatus, actor domain.Actor) (*domain.PickupRequestResponse, error) {
	switch status {
	case domain.RequestAccepted:
		return s.DonorApprove(ctx, requestID, actor)
	case domain.RequestPickedUp:
		return s.VolunteerPickedUp(ctx, requestID, actor)
	case domain.RequestDelivered:
		return s.VolunteerDelivered(ctx, requestID, actor)
	case domain.RequestCancelled:
		return s.Cancel(ctx, requestID, actor)
	default:
		return nil, domain.ErrInvalidStatus
	}
}
