package repositories

import (
	"gorm.io/gorm"

	"schoolride-api/models"
)

type UserRepository interface {
	FindWithRoles(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Save(user *models.User) error
	FindPassengerByUser(userID uint) (*models.Passenger, error)
	SavePassenger(passenger *models.Passenger) error
	FindChild(id uint) (*models.Child, error)
	FindDriverByUser(userID uint) (*models.Driver, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindWithRoles(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindPassengerByUser(userID uint) (*models.Passenger, error) {
	var passenger models.Passenger
	if err := r.db.Where("user_id = ?", userID).First(&passenger).Error; err != nil {
		return nil, err
	}
	return &passenger, nil
}

func (r *userRepository) SavePassenger(passenger *models.Passenger) error {
	return r.db.Save(passenger).Error
}

func (r *userRepository) FindChild(id uint) (*models.Child, error) {
	var child models.Child
	if err := r.db.First(&child, id).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *userRepository) FindDriverByUser(userID uint) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}
