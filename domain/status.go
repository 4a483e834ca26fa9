package domain

import "errors"

// ListingStatus is the lifecycle status of a food listing. It is only
// advanced by the pickup-request transition engine or the expiry sweep.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingClaimed   ListingStatus = "claimed"
	ListingCompleted ListingStatus = "completed"
	ListingExpired   ListingStatus = "expired"
)

// RequestStatus is the lifecycle status of a pickup request.
//
//	pending -> donor_approved -> {volunteer_requested -> volunteer_accepted -> picked_up -> delivered}
//	                          -> picked_up (self pickup)
//	picked_up (self pickup) / delivered -> confirmed
//	pending / donor_approved -> cancelled
type RequestStatus string

const (
	RequestPending            RequestStatus = "pending"
	RequestDonorApproved      RequestStatus = "donor_approved"
	RequestVolunteerRequested RequestStatus = "volunteer_requested"
	RequestVolunteerAccepted  RequestStatus = "volunteer_accepted"
	RequestPickedUp           RequestStatus = "picked_up"
	RequestDelivered          RequestStatus = "delivered"
	RequestConfirmed          RequestStatus = "confirmed"
	RequestCancelled          RequestStatus = "cancelled"

	// RequestAccepted belongs to the superseded 5-state model. It is only
	// recognized by the legacy alias layer, never stored.
	RequestAccepted RequestStatus = "accepted"
)

var ErrInvalidStatus = errors.New("invalid status value")

var requestStatuses = map[RequestStatus]bool{
	RequestPending:            true,
	RequestDonorApproved:      true,
	RequestVolunteerRequested: true,
	RequestVolunteerAccepted:  true,
	RequestPickedUp:           true,
	RequestDelivered:          true,
	RequestConfirmed:          true,
	RequestCancelled:          true,
}

var listingStatuses = map[ListingStatus]bool{
	ListingAvailable: true,
	ListingClaimed:   true,
	ListingCompleted: true,
	ListingExpired:   true,
}

// ParseRequestStatus rejects unknown strings at the store-read boundary.
func ParseRequestStatus(s string) (RequestStatus, error) {
	status := RequestStatus(s)
	if !requestStatuses[status] {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func ParseListingStatus(s string) (ListingStatus, error) {
	status := ListingStatus(s)
	if !listingStatuses[status] {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsTerminal reports whether no further transition is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestConfirmed || s == RequestCancelled
}

// ActiveRequestStatuses are the statuses that keep a listing claimed.
var ActiveRequestStatuses = []RequestStatus{
	RequestPending,
	RequestDonorApproved,
	RequestVolunteerRequested,
	RequestVolunteerAccepted,
	RequestPickedUp,
	RequestDelivered,
}

func (s RequestStatus) IsActive() bool {
	for _, active := range ActiveRequestStatuses {
		if s == active {
			return true
		}
	}
	return false
}

var requestStatusLabels = map[RequestStatus]string{
	RequestPending:            "Pending",
	RequestDonorApproved:      "Approved",
	RequestVolunteerRequested: "Looking for Volunteer",
	RequestVolunteerAccepted:  "Volunteer Assigned",
	RequestPickedUp:           "Picked Up",
	RequestDelivered:          "Delivered",
	RequestConfirmed:          "Confirmed",
	RequestCancelled:          "Cancelled",
}

var requestStatusColors = map[RequestStatus]string{
	RequestPending:            "yellow",
	RequestDonorApproved:      "teal",
	RequestVolunteerRequested: "purple",
	RequestVolunteerAccepted:  "blue",
	RequestPickedUp:           "orange",
	RequestDelivered:          "green",
	RequestConfirmed:          "green",
	RequestCancelled:          "gray",
}

func (s RequestStatus) Label() string {
	if label, ok := requestStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s RequestStatus) Color() string {
	if color, ok := requestStatusColors[s]; ok {
		return color
	}
	return "gray"
}
