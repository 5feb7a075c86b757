package repositories

import (
	"time"

	"gorm.io/gorm"

	"schoolride-api/models"
)

type JourneyPlanRepository interface {
	FindByID(id uint) (*models.JourneyPlan, error)
	FindByDateAndRequest(date time.Time, requestID uint) (*models.JourneyPlan, error)
	// FindAllByUser resolves the driver behind the user id and returns that
	// driver's plans, oldest first.
	FindAllByUser(userID uint) ([]models.JourneyPlan, error)
	FindAllByUserAndDate(userID uint, date time.Time) ([]models.JourneyPlan, error)
	DeleteByRequest(requestID uint) error
	FindLatestEventByPlan(planID uint) (*models.JourneyEvent, error)
}

type journeyPlanRepository struct {
	db *gorm.DB
}

func NewJourneyPlanRepository(db *gorm.DB) JourneyPlanRepository {
	return &journeyPlanRepository{db: db}
}

func (r *journeyPlanRepository) FindByID(id uint) (*models.JourneyPlan, error) {
	var plan models.JourneyPlan
	if err := r.db.Preload("Driver").First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *journeyPlanRepository) FindByDateAndRequest(date time.Time, requestID uint) (*models.JourneyPlan, error) {
	var plan models.JourneyPlan
	err := r.db.Preload("Driver").
		Where("journey_date = ? AND ride_request_id = ?", date.Format("2006-01-02"), requestID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *journeyPlanRepository) byDriverUser(userID uint) *gorm.DB {
	return r.db.Preload("Driver").
		Joins("JOIN drivers ON drivers.id = journey_plans.driver_id").
		Where("drivers.user_id = ?", userID)
}

func (r *journeyPlanRepository) FindAllByUser(userID uint) ([]models.JourneyPlan, error) {
	var plans []models.JourneyPlan
	if err := r.byDriverUser(userID).Order("journey_plans.journey_date ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *journeyPlanRepository) FindAllByUserAndDate(userID uint, date time.Time) ([]models.JourneyPlan, error) {
	var plans []models.JourneyPlan
	err := r.byDriverUser(userID).
		Where("journey_plans.journey_date = ?", date.Format("2006-01-02")).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *journeyPlanRepository) DeleteByRequest(requestID uint) error {
	return r.db.Where("ride_request_id = ?", requestID).Delete(&models.JourneyPlan{}).Error
}

func (r *journeyPlanRepository) FindLatestEventByPlan(planID uint) (*models.JourneyEvent, error) {
	var event models.JourneyEvent
	err := r.db.Where("journey_plan_id = ?", planID).
		Order("timestamp DESC").
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}
