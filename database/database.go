package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolride-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Passenger{},
		&models.Child{},
		&models.Driver{},
		&models.Location{},
		&models.RideRequest{},
		&models.RideFrequency{},
		&models.RideRequestFrequency{},
		&models.JourneyPlan{},
		&models.JourneyEvent{},
		&models.RideManagement{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Composite indexes for the hot listing queries.
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_ride_requests_user_status ON ride_requests(user_id, request_status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for ride_requests: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_ride_requests_dates ON ride_requests(start_date, end_date)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for ride_requests dates: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_journey_plans_date_request ON journey_plans(journey_date, ride_request_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for journey_plans: %v\n", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_ride_managements_request_ts ON ride_managements(ride_request_id, timestamp DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for ride_managements: %v\n", err)
	}

	return nil
}

// SeedRoles makes sure the role rows the middleware depends on exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RolePassenger, models.RoleDriver} {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if err == nil {
			continue
		}
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}
