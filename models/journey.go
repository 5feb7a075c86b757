package models

import (
	"time"
)

// Session is the half of a driver's day a trip list is requested for.
type Session string

const (
	SessionMorning   Session = "MORNING"
	SessionAfternoon Session = "AFTERNOON"
)

// JourneyPlan links a ride request to a concrete calendar date and a driver.
// Plans are produced by the planning process; this service reads them only.
type JourneyPlan struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	JourneyDate   time.Time `json:"journey_date" gorm:"type:date;not null;index"`
	RideRequestID uint      `json:"ride_request_id" gorm:"not null;index"`
	DriverID      *uint     `json:"driver_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Driver *Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// RideManagement is one status decision for a ride request. History is
// append-only; the current decision is the most recent by timestamp.
type RideManagement struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	RideRequestID uint          `json:"ride_request_id" gorm:"not null;index"`
	Status        RequestStatus `json:"status" gorm:"size:20;not null"`
	Comment       string        `json:"comment" gorm:"size:1000"`
	DecidedByID   uint          `json:"decided_by_id"`
	Timestamp     time.Time     `json:"timestamp" gorm:"not null;index"`
}

// JourneyEvent is a progress marker recorded against a planned journey.
type JourneyEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	JourneyPlanID uint      `json:"journey_plan_id" gorm:"not null;index"`
	Event         string    `json:"event" gorm:"size:50;not null"`
	Timestamp     time.Time `json:"timestamp" gorm:"not null;index"`
}

// DriverJourneys splits a driver's trips into past and upcoming.
type DriverJourneys struct {
	PastJourneys     []RideRequestDetail `json:"past_journeys"`
	UpcomingJourneys []RideRequestDetail `json:"upcoming_journeys"`
}
