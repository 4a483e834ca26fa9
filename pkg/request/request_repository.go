package request

import (
	"context"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"

	"gorm.io/gorm"
)

type (
	RequestRepository interface {
		Insert(ctx context.Context, request *entities.PickupRequest) error
		GetByID(ctx context.Context, id string) (*entities.PickupRequest, error)

		// UpdateStatus performs the optimistic-concurrency write: the row is
		// only touched when its stored status still equals expectedPrior.
		// Zero affected rows means another actor advanced the request first.
		UpdateStatus(ctx context.Context, id string, expectedPrior, newStatus domain.RequestStatus, extra map[string]interface{}) (int64, error)

		QueryByReceiver(ctx context.Context, receiverID string) ([]*entities.PickupRequest, error)
		QueryByDonor(ctx context.Context, donorID string) ([]*entities.PickupRequest, error)
		QueryByVolunteer(ctx context.Context, volunteerID string) ([]*entities.PickupRequest, error)
		QueryByStatus(ctx context.Context, status domain.RequestStatus) ([]*entities.PickupRequest, error)
		QueryAll(ctx context.Context) ([]*entities.PickupRequest, error)

		CountCompletedByDonor(ctx context.Context, donorID string) (int64, error)
		CountCompletedByReceiver(ctx context.Context, receiverID string) (int64, error)
		CountCompletedByVolunteer(ctx context.Context, volunteerID string) (int64, error)
		CountCompletedAll(ctx context.Context) (int64, error)
	}

	requestRepository struct {
		db *gorm.DB
	}
)

// completedStatuses counts a delivery as done once the food changed hands.
var completedStatuses = []string{
	string(domain.RequestDelivered),
	string(domain.RequestConfirmed),
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Insert(ctx context.Context, request *entities.PickupRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*entities.PickupRequest, error) {
	var request entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id string, expectedPrior, newStatus domain.RequestStatus, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{
		"status": string(newStatus),
	}
	for key, value := range extra {
		updates[key] = value
	}

	result := r.db.WithContext(ctx).
		Model(&entities.PickupRequest{}).
		Where("id = ? AND status = ?", id, string(expectedPrior)).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *requestRepository) QueryByReceiver(ctx context.Context, receiverID string) ([]*entities.PickupRequest, error) {
	var requests []*entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) QueryByDonor(ctx context.Context, donorID string) ([]*entities.PickupRequest, error) {
	var requests []*entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Joins("JOIN food_listings ON food_listings.id = pickup_requests.listing_id").
		Where("food_listings.donor_id = ?", donorID).
		Order("pickup_requests.created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) QueryByVolunteer(ctx context.Context, volunteerID string) ([]*entities.PickupRequest, error) {
	var requests []*entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("volunteer_id = ?", volunteerID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) QueryByStatus(ctx context.Context, status domain.RequestStatus) ([]*entities.PickupRequest, error) {
	var requests []*entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) QueryAll(ctx context.Context) ([]*entities.PickupRequest, error) {
	var requests []*entities.PickupRequest
	if err := r.db.WithContext(ctx).
		Preload("Listing").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) CountCompletedByDonor(ctx context.Context, donorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PickupRequest{}).
		Joins("JOIN food_listings ON food_listings.id = pickup_requests.listing_id").
		Where("food_listings.donor_id = ? AND pickup_requests.status IN ?", donorID, completedStatuses).
		Count(&count).Error
	return count, err
}

func (r *requestRepository) CountCompletedByReceiver(ctx context.Context, receiverID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PickupRequest{}).
		Where("receiver_id = ? AND status IN ?", receiverID, completedStatuses).
		Count(&count).Error
	return count, err
}

func (r *requestRepository) CountCompletedByVolunteer(ctx context.Context, volunteerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PickupRequest{}).
		Where("volunteer_id = ? AND status IN ?", volunteerID, completedStatuses).
		Count(&count).Error
	return count, err
}

func (r *requestRepository) CountCompletedAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PickupRequest{}).
		Where("status IN ?", completedStatuses).
		Count(&count).Error
	return count, err
}
