package repositories

import (
	"gorm.io/gorm"

	"schoolride-api/models"
)

type LocationRepository interface {
	Save(location *models.Location) error
	Delete(id uint) error
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// Save creates or updates a location, filling the generated id back onto it.
func (r *locationRepository) Save(location *models.Location) error {
	return r.db.Save(location).Error
}

func (r *locationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Location{}, id).Error
}
