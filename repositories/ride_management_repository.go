package repositories

import (
	"gorm.io/gorm"

	"schoolride-api/models"
)

type RideManagementRepository interface {
	Save(decision *models.RideManagement) error
	FindLatestByRequest(requestID uint) (*models.RideManagement, error)
	DeleteByRequest(requestID uint) error
}

type rideManagementRepository struct {
	db *gorm.DB
}

func NewRideManagementRepository(db *gorm.DB) RideManagementRepository {
	return &rideManagementRepository{db: db}
}

func (r *rideManagementRepository) Save(decision *models.RideManagement) error {
	return r.db.Save(decision).Error
}

func (r *rideManagementRepository) FindLatestByRequest(requestID uint) (*models.RideManagement, error) {
	var decision models.RideManagement
	err := r.db.Where("ride_request_id = ?", requestID).
		Order("timestamp DESC").
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

func (r *rideManagementRepository) DeleteByRequest(requestID uint) error {
	return r.db.Where("ride_request_id = ?", requestID).Delete(&models.RideManagement{}).Error
}
