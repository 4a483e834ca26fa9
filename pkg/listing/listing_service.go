package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"FoodBridge-Backend/internal/utils/storage"
	"FoodBridge-Backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ListingService interface {
		CreateListing(ctx context.Context, req domain.CreateListingRequest, donorID string) (*domain.ListingResponse, error)
		GetListingByID(ctx context.Context, id string) (*domain.ListingResponse, error)
		UpdateListing(ctx context.Context, id string, req domain.UpdateListingRequest, actor domain.Actor) (*domain.ListingResponse, error)
		DeleteListing(ctx context.Context, id string, actor domain.Actor) error
		BrowseListings(ctx context.Context, status, category string, page, limit int) ([]*domain.ListingResponse, int64, error)
		GetMyListings(ctx context.Context, donorID string) ([]*domain.ListingResponse, error)
		GetNearbyListings(ctx context.Context, req domain.NearbyListingsRequest) ([]*domain.ListingResponse, error)
		UploadListingImage(ctx context.Context, req domain.UploadListingImageRequest, actor domain.Actor) (string, error)
		ExpireOverdueListings(ctx context.Context) (int64, error)
	}

	listingService struct {
		listingRepository ListingRepository
		s3                storage.AwsS3
	}
)

func NewListingService(listingRepository ListingRepository, s3 storage.AwsS3) ListingService {
	return &listingService{
		listingRepository: listingRepository,
		s3:                s3,
	}
}

func (s *listingService) CreateListing(ctx context.Context, req domain.CreateListingRequest, donorID string) (*domain.ListingResponse, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, domain.ErrInvalidExpiryDate
		}
		expiresAt = &parsed
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, domain.ErrInvalidCoordinates
	}

	listingID := uuid.New()

	var imageURL string
	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("listing-%s", listingID.String()),
			req.Image,
			"listings",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	listing := &entities.FoodListing{
		ID:            listingID,
		DonorID:       donorUUID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		DietaryTags:   req.DietaryTags,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PickupAddress: req.PickupAddress,
		ImageURL:      imageURL,
		ExpiresAt:     expiresAt,
		Status:        string(domain.ListingAvailable),
	}

	if err := s.listingRepository.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	return toListingResponse(listing), nil
}

func (s *listingService) GetListingByID(ctx context.Context, id string) (*domain.ListingResponse, error) {
	listing, err := s.listingRepository.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return toListingResponse(listing), nil
}

func (s *listingService) UpdateListing(ctx context.Context, id string, req domain.UpdateListingRequest, actor domain.Actor) (*domain.ListingResponse, error) {
	listing, err := s.listingRepository.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	if listing.DonorID.String() != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrUnauthorizedListingAccess
	}

	// A claimed listing is in the middle of a pickup; edits would race the
	// transition engine.
	if listing.Status != string(domain.ListingAvailable) && !actor.IsAdmin() {
		return nil, domain.ErrListingNotEditable
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.DietaryTags != nil {
		listing.DietaryTags = req.DietaryTags
	}
	if req.PickupAddress != nil {
		listing.PickupAddress = *req.PickupAddress
	}
	if req.ExpiresAt != nil {
		if *req.ExpiresAt == "" {
			listing.ExpiresAt = nil
		} else {
			parsed, err := time.Parse(time.RFC3339, *req.ExpiresAt)
			if err != nil {
				return nil, domain.ErrInvalidExpiryDate
			}
			listing.ExpiresAt = &parsed
		}
	}

	if err := s.listingRepository.UpdateListing(ctx, listing); err != nil {
		return nil, err
	}

	return toListingResponse(listing), nil
}

func (s *listingService) DeleteListing(ctx context.Context, id string, actor domain.Actor) error {
	listing, err := s.listingRepository.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrListingNotFound
		}
		return err
	}

	if listing.DonorID.String() != actor.ID && !actor.IsAdmin() {
		return domain.ErrUnauthorizedListingAccess
	}

	return s.listingRepository.DeleteListing(ctx, id)
}

func (s *listingService) BrowseListings(ctx context.Context, status, category string, page, limit int) ([]*domain.ListingResponse, int64, error) {
	listings, count, err := s.listingRepository.GetListings(ctx, status, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		result = append(result, toListingResponse(listing))
	}
	return result, count, nil
}

func (s *listingService) GetMyListings(ctx context.Context, donorID string) ([]*domain.ListingResponse, error) {
	listings, err := s.listingRepository.GetListingsByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		result = append(result, toListingResponse(listing))
	}
	return result, nil
}

func (s *listingService) GetNearbyListings(ctx context.Context, req domain.NearbyListingsRequest) ([]*domain.ListingResponse, error) {
	listings, err := s.listingRepository.GetNearbyListings(ctx, req.Latitude, req.Longitude, req.Radius)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		resp := toListingResponse(listing)
		if listing.Latitude != nil && listing.Longitude != nil {
			resp.Distance = Haversine(req.Latitude, req.Longitude, *listing.Latitude, *listing.Longitude)
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *listingService) UploadListingImage(ctx context.Context, req domain.UploadListingImageRequest, actor domain.Actor) (string, error) {
	listing, err := s.listingRepository.GetListingByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrListingNotFound
		}
		return "", err
	}

	if listing.DonorID.String() != actor.ID && !actor.IsAdmin() {
		return "", domain.ErrUnauthorizedListingAccess
	}

	objectKey, err := s.s3.UploadFile(
		fmt.Sprintf("listing-%s", listing.ID.String()),
		req.Image,
		"listings",
		storage.AllowImage...,
	)
	if err != nil {
		return "", err
	}

	imageURL := s.s3.GetPublicLinkKey(objectKey)
	if err := s.listingRepository.UpdateImageURL(ctx, req.ListingID, imageURL); err != nil {
		return "", err
	}

	return imageURL, nil
}

// ExpireOverdueListings flips overdue available listings to expired. It
// runs from the periodic sweep in main, outside the transition engine.
func (s *listingService) ExpireOverdueListings(ctx context.Context) (int64, error) {
	expired, err := s.listingRepository.ExpireOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		logger.Log.Infof("expired %d overdue listings", expired)
	}
	return expired, nil
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toListingResponse(listing *entities.FoodListing) *domain.ListingResponse {
	resp := &domain.ListingResponse{
		ID:            listing.ID.String(),
		DonorID:       listing.DonorID.String(),
		Title:         listing.Title,
		Description:   listing.Description,
		Category:      listing.Category,
		DietaryTags:   listing.DietaryTags,
		Latitude:      listing.Latitude,
		Longitude:     listing.Longitude,
		PickupAddress: listing.PickupAddress,
		ImageURL:      listing.ImageURL,
		ExpiresAt:     listing.ExpiresAt,
		Status:        listing.Status,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
	if listing.Donor != nil {
		resp.DonorName = listing.Donor.Name
	}
	return resp
}
