package repositories

import (
	"gorm.io/gorm"

	"schoolride-api/models"
)

type RideFrequencyRepository interface {
	Save(frequency *models.RideFrequency) error
	FindByID(id uint) (*models.RideFrequency, error)
	// FindAllByRequest resolves a request's frequencies through the join
	// table, ordered by frequency id ascending.
	FindAllByRequest(requestID uint) ([]models.RideFrequency, error)
	SaveRelationship(rel *models.RideRequestFrequency) error
	FindRelationshipsByRequest(requestID uint) ([]models.RideRequestFrequency, error)
	DeleteRelationshipsByRequest(requestID uint) error
}

type rideFrequencyRepository struct {
	db *gorm.DB
}

func NewRideFrequencyRepository(db *gorm.DB) RideFrequencyRepository {
	return &rideFrequencyRepository{db: db}
}

func (r *rideFrequencyRepository) Save(frequency *models.RideFrequency) error {
	return r.db.Save(frequency).Error
}

func (r *rideFrequencyRepository) FindByID(id uint) (*models.RideFrequency, error) {
	var frequency models.RideFrequency
	if err := r.db.First(&frequency, id).Error; err != nil {
		return nil, err
	}
	return &frequency, nil
}

func (r *rideFrequencyRepository) FindAllByRequest(requestID uint) ([]models.RideFrequency, error) {
	var frequencies []models.RideFrequency
	err := r.db.
		Joins("JOIN ride_request_frequencies rrf ON rrf.ride_frequency_id = ride_frequencies.id").
		Where("rrf.ride_request_id = ?", requestID).
		Order("ride_frequencies.id ASC").
		Find(&frequencies).Error
	if err != nil {
		return nil, err
	}
	return frequencies, nil
}

func (r *rideFrequencyRepository) SaveRelationship(rel *models.RideRequestFrequency) error {
	return r.db.Save(rel).Error
}

func (r *rideFrequencyRepository) FindRelationshipsByRequest(requestID uint) ([]models.RideRequestFrequency, error) {
	var rels []models.RideRequestFrequency
	if err := r.db.Where("ride_request_id = ?", requestID).Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *rideFrequencyRepository) DeleteRelationshipsByRequest(requestID uint) error {
	return r.db.Where("ride_request_id = ?", requestID).Delete(&models.RideRequestFrequency{}).Error
}
