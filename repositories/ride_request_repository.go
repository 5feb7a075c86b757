package repositories

import (
	"time"

	"gorm.io/gorm"

	"schoolride-api/models"
)

type RideRequestRepository interface {
	Save(request *models.RideRequest) error
	FindByID(id uint) (*models.RideRequest, error)
	Delete(id uint) error
	FindAllPaged(page, limit int) ([]models.RideRequest, int64, error)
	FindAllByUserPaged(userID uint, page, limit int) ([]models.RideRequest, int64, error)
	FindAllByStatusPaged(status models.RequestStatus, page, limit int) ([]models.RideRequest, int64, error)
	FindAllByUser(userID uint) ([]models.RideRequest, error)
	FindAllByUserAndStatus(userID uint, status models.RequestStatus) ([]models.RideRequest, error)
	FindAllByUserAndDate(userID uint, date time.Time) ([]models.RideRequest, error)
	FindAllByUserAndDateAndStatus(userID uint, date time.Time, status models.RequestStatus) ([]models.RideRequest, error)
	FindAllByUserAndChildNameAndDateAndStatus(userID uint, childName string, date time.Time, status models.RequestStatus) ([]models.RideRequest, error)
	FindAllByDate(date time.Time) ([]models.RideRequest, error)
}

type rideRequestRepository struct {
	db *gorm.DB
}

func NewRideRequestRepository(db *gorm.DB) RideRequestRepository {
	return &rideRequestRepository{db: db}
}

func (r *rideRequestRepository) base() *gorm.DB {
	return r.db.Preload("Child").Preload("PickupLocation").Preload("DropLocation")
}

func (r *rideRequestRepository) Save(request *models.RideRequest) error {
	return r.db.Save(request).Error
}

func (r *rideRequestRepository) FindByID(id uint) (*models.RideRequest, error) {
	var request models.RideRequest
	if err := r.base().First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *rideRequestRepository) Delete(id uint) error {
	return r.db.Delete(&models.RideRequest{}, id).Error
}

func (r *rideRequestRepository) paged(query *gorm.DB, page, limit int) ([]models.RideRequest, int64, error) {
	var total int64
	if err := query.Model(&models.RideRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.RideRequest
	err := query.Preload("Child").Preload("PickupLocation").Preload("DropLocation").
		Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *rideRequestRepository) FindAllPaged(page, limit int) ([]models.RideRequest, int64, error) {
	return r.paged(r.db.Session(&gorm.Session{}), page, limit)
}

func (r *rideRequestRepository) FindAllByUserPaged(userID uint, page, limit int) ([]models.RideRequest, int64, error) {
	return r.paged(r.db.Where("user_id = ?", userID), page, limit)
}

func (r *rideRequestRepository) FindAllByStatusPaged(status models.RequestStatus, page, limit int) ([]models.RideRequest, int64, error) {
	return r.paged(r.db.Where("request_status = ?", status), page, limit)
}

func (r *rideRequestRepository) FindAllByUser(userID uint) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	if err := r.base().Where("user_id = ?", userID).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *rideRequestRepository) FindAllByUserAndStatus(userID uint, status models.RequestStatus) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	err := r.base().
		Where("user_id = ? AND request_status = ?", userID, status).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// inDateRange keeps requests whose start/end range covers the given date.
func inDateRange(db *gorm.DB, date time.Time) *gorm.DB {
	day := date.Format("2006-01-02")
	return db.Where("start_date <= ? AND end_date >= ?", day, day)
}

func (r *rideRequestRepository) FindAllByUserAndDate(userID uint, date time.Time) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	err := inDateRange(r.base().Where("user_id = ?", userID), date).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *rideRequestRepository) FindAllByUserAndDateAndStatus(userID uint, date time.Time, status models.RequestStatus) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	err := inDateRange(r.base().Where("user_id = ? AND request_status = ?", userID, status), date).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *rideRequestRepository) FindAllByUserAndChildNameAndDateAndStatus(userID uint, childName string, date time.Time, status models.RequestStatus) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	err := inDateRange(
		r.base().
			Joins("JOIN children ON children.id = ride_requests.child_id").
			Where("ride_requests.user_id = ? AND ride_requests.request_status = ? AND children.name = ?",
				userID, status, childName),
		date,
	).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *rideRequestRepository) FindAllByDate(date time.Time) ([]models.RideRequest, error) {
	var requests []models.RideRequest
	if err := inDateRange(r.base(), date).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
