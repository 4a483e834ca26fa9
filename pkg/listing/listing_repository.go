package listing

import (
	"context"
	"time"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"

	"gorm.io/gorm"
)

type (
	ListingRepository interface {
		CreateListing(ctx context.Context, listing *entities.FoodListing) error
		GetListingByID(ctx context.Context, id string) (*entities.FoodListing, error)
		UpdateListing(ctx context.Context, listing *entities.FoodListing) error
		DeleteListing(ctx context.Context, id string) error
		GetListings(ctx context.Context, status, category string, page, limit int) ([]*entities.FoodListing, int64, error)
		GetListingsByDonor(ctx context.Context, donorID string) ([]*entities.FoodListing, error)
		GetNearbyListings(ctx context.Context, lat, lng, radius float64) ([]*entities.FoodListing, error)
		UpdateImageURL(ctx context.Context, id string, imageURL string) error

		// UpdateStatusIf performs a conditional status write keyed on the
		// current status and reports how many rows changed. It is the
		// claim/release primitive the transition engine relies on.
		UpdateStatusIf(ctx context.Context, id string, from, to domain.ListingStatus) (int64, error)

		ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

		CountByDonor(ctx context.Context, donorID string) (int64, error)
		CountAll(ctx context.Context) (int64, error)
	}

	listingRepository struct {
		db *gorm.DB
	}
)

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) CreateListing(ctx context.Context, listing *entities.FoodListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetListingByID(ctx context.Context, id string) (*entities.FoodListing, error) {
	var listing entities.FoodListing
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("id = ?", id).
		First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) UpdateListing(ctx context.Context, listing *entities.FoodListing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) DeleteListing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FoodListing{}).Error
}

func (r *listingRepository) GetListings(ctx context.Context, status, category string, page, limit int) ([]*entities.FoodListing, int64, error) {
	var listings []*entities.FoodListing
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.FoodListing{})
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, count, nil
}

func (r *listingRepository) GetListingsByDonor(ctx context.Context, donorID string) ([]*entities.FoodListing, error) {
	var listings []*entities.FoodListing
	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) GetNearbyListings(ctx context.Context, lat, lng, radius float64) ([]*entities.FoodListing, error) {
	var listings []*entities.FoodListing

	// Uses PostgreSQL's earthdistance extension:
	// CREATE EXTENSION IF NOT EXISTS "earthdistance" CASCADE;
	// CREATE EXTENSION IF NOT EXISTS "cube";
	query := `
		SELECT *,
		       earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) as distance
		FROM food_listings
		WHERE status = 'available'
		  AND latitude IS NOT NULL
		  AND longitude IS NOT NULL
		  AND earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)
		ORDER BY distance ASC
	`

	// radius in km, convert to meters for the query
	radiusMeters := radius * 1000

	if err := r.db.WithContext(ctx).Raw(query, lat, lng, lat, lng, radiusMeters).Scan(&listings).Error; err != nil {
		return nil, err
	}

	return listings, nil
}

func (r *listingRepository) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.FoodListing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"image_url": imageURL}).Error
}

func (r *listingRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.ListingStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.FoodListing{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{"status": string(to)})
	return result.RowsAffected, result.Error
}

func (r *listingRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.FoodListing{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", string(domain.ListingAvailable), now).
		Updates(map[string]interface{}{"status": string(domain.ListingExpired)})
	return result.RowsAffected, result.Error
}

func (r *listingRepository) CountByDonor(ctx context.Context, donorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.FoodListing{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error
	return count, err
}

func (r *listingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.FoodListing{}).
		Count(&count).Error
	return count, err
}
