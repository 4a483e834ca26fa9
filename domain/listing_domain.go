package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateListing  = "listing created successfully"
	MessageSuccessGetListings    = "listings retrieved successfully"
	MessageSuccessUpdateListing  = "listing updated successfully"
	MessageSuccessDeleteListing  = "listing deleted successfully"
	MessageSuccessUploadImage    = "image uploaded successfully"
	MessageSuccessNearbyListings = "nearby listings retrieved successfully"

	MessageFailedCreateListing  = "failed to create listing"
	MessageFailedGetListings    = "failed to retrieve listings"
	MessageFailedUpdateListing  = "failed to update listing"
	MessageFailedDeleteListing  = "failed to delete listing"
	MessageFailedUploadImage    = "failed to upload image"
	MessageFailedNearbyListings = "failed to retrieve nearby listings"

	ErrListingNotFound           = errors.New("listing not found")
	ErrUnauthorizedListingAccess = errors.New("unauthorized access to listing")
	ErrInvalidCategory           = errors.New("invalid food category")
	ErrInvalidExpiryDate         = errors.New("invalid expiry date")
	ErrInvalidCoordinates        = errors.New("invalid coordinates")
	ErrListingNotEditable        = errors.New("listing can no longer be edited")
)

var FoodCategories = []string{"cooked", "raw", "packaged", "baked", "beverages", "other"}

type (
	CreateListingRequest struct {
		Title         string                `json:"title" validate:"required,min=3"`
		Description   string                `json:"description" validate:"omitempty"`
		Category      string                `json:"category" validate:"required,oneof=cooked raw packaged baked beverages other"`
		DietaryTags   []string              `json:"dietary_tags" validate:"omitempty,dive,min=1"`
		Latitude      *float64              `json:"latitude" validate:"omitempty,min=-90,max=90"`
		Longitude     *float64              `json:"longitude" validate:"omitempty,min=-180,max=180"`
		PickupAddress string                `json:"pickup_address" validate:"omitempty"`
		ExpiresAt     string                `json:"expires_at" validate:"omitempty"`
		Image         *multipart.FileHeader `json:"image" form:"image"`
	}

	UpdateListingRequest struct {
		Title         *string  `json:"title" validate:"omitempty,min=3"`
		Description   *string  `json:"description"`
		Category      *string  `json:"category" validate:"omitempty,oneof=cooked raw packaged baked beverages other"`
		DietaryTags   []string `json:"dietary_tags" validate:"omitempty,dive,min=1"`
		PickupAddress *string  `json:"pickup_address"`
		ExpiresAt     *string  `json:"expires_at"`
	}

	ListingResponse struct {
		ID            string     `json:"id"`
		DonorID       string     `json:"donor_id"`
		DonorName     string     `json:"donor_name,omitempty"`
		Title         string     `json:"title"`
		Description   string     `json:"description,omitempty"`
		Category      string     `json:"category"`
		DietaryTags   []string   `json:"dietary_tags,omitempty"`
		Latitude      *float64   `json:"latitude,omitempty"`
		Longitude     *float64   `json:"longitude,omitempty"`
		Distance      float64    `json:"distance,omitempty"` // km, only on nearby queries
		PickupAddress string     `json:"pickup_address,omitempty"`
		ImageURL      string     `json:"image_url,omitempty"`
		ExpiresAt     *time.Time `json:"expires_at,omitempty"`
		Status        string     `json:"status"`
		CreatedAt     time.Time  `json:"created_at"`
		UpdatedAt     time.Time  `json:"updated_at"`
	}

	NearbyListingsRequest struct {
		Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
		Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
		Radius    float64 `json:"radius" validate:"required,min=1,max=50"`
	}

	UploadListingImageRequest struct {
		ListingID string                `json:"listing_id" validate:"required,uuid"`
		Image     *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}
)
