package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRequest = "pickup request created successfully"
	MessageSuccessGetRequests   = "pickup requests retrieved successfully"
	MessageSuccessUpdateRequest = "pickup request updated successfully"
	MessageSuccessGetImpact     = "impact statistics retrieved successfully"

	MessageFailedCreateRequest = "failed to create pickup request"
	MessageFailedGetRequests   = "failed to retrieve pickup requests"
	MessageFailedUpdateRequest = "failed to update pickup request"
	MessageFailedGetImpact     = "failed to retrieve impact statistics"

	ErrRequestNotFound           = errors.New("pickup request not found")
	ErrStaleState                = errors.New("someone else already updated this request")
	ErrListingNotAvailable       = errors.New("listing is not available")
	ErrUnauthorizedRequestAccess = errors.New("unauthorized access to pickup request")
	ErrRequestOwnListing         = errors.New("cannot request your own listing")
	ErrVolunteerRequired         = errors.New("a volunteer must be assigned first")
)

type (
	CreatePickupRequest struct {
		ListingID string `json:"listing_id" validate:"required,uuid"`
		Note      string `json:"note" validate:"omitempty,max=500"`
	}

	// ListingSummary is the denormalized listing slice carried by every
	// pickup-request projection.
	ListingSummary struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		PickupAddress string `json:"pickup_address,omitempty"`
		ImageURL      string `json:"image_url,omitempty"`
		DonorID       string `json:"donor_id"`
		Status        string `json:"status"`
	}

	PickupRequestResponse struct {
		ID          string          `json:"id"`
		ListingID   string          `json:"listing_id"`
		ReceiverID  string          `json:"receiver_id"`
		VolunteerID *string         `json:"volunteer_id,omitempty"`
		Status      string          `json:"status"`
		StatusLabel string          `json:"status_label"`
		StatusColor string          `json:"status_color"`
		Note        string          `json:"note,omitempty"`
		SelfPickup  bool            `json:"self_pickup"`
		Listing     *ListingSummary `json:"listing,omitempty"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}

	ImpactStats struct {
		TotalListings       int64   `json:"total_listings"`
		CompletedDeliveries int64   `json:"completed_deliveries"`
		EstimatedMeals      int64   `json:"estimated_meals"`
		EstimatedKgSaved    float64 `json:"estimated_kg_saved"`
		CO2Saved            float64 `json:"co2_saved"`
	}
)
