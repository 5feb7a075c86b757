package models

import (
	"time"
)

// RequestStatus is the approval state of a ride request.
type RequestStatus string

const (
	StatusRaised    RequestStatus = "RAISED"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusRaised, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// RideRequest is a passenger's ask for recurring transport for a child.
// At least one of pickup/drop location must be present.
type RideRequest struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	StartDate      *time.Time    `json:"start_date" gorm:"type:date"`
	EndDate        *time.Time    `json:"end_date" gorm:"type:date"`
	RequestStatus  RequestStatus `json:"request_status" gorm:"size:20;index"`
	RequestComment string        `json:"request_comment" gorm:"size:1000"`
	UserID         uint          `json:"user_id" gorm:"not null;index"`
	ChildID        uint          `json:"child_id" gorm:"not null;index"`
	PickupLocationID *uint       `json:"pickup_location_id"`
	DropLocationID   *uint       `json:"drop_location_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	User           User      `json:"-" gorm:"foreignKey:UserID"`
	Child          Child     `json:"child" gorm:"foreignKey:ChildID"`
	PickupLocation *Location `json:"pickup_location,omitempty" gorm:"foreignKey:PickupLocationID"`
	DropLocation   *Location `json:"drop_location,omitempty" gorm:"foreignKey:DropLocationID"`
}

// RideRequestPayload is the inbound draft for create and update.
type RideRequestPayload struct {
	ID             uint                   `json:"id"`
	StartDate      string                 `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate        string                 `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	RequestStatus  string                 `json:"request_status"`
	RequestComment string                 `json:"request_comment"`
	UserID         uint                   `json:"user_id" binding:"required"`
	ChildID        uint                   `json:"child_id" binding:"required"`
	PickupLocation *LocationPayload       `json:"pickup_location"`
	DropLocation   *LocationPayload       `json:"drop_location"`
	Frequencies    []RideFrequencyPayload `json:"frequencies"`
}

// RideRequestDetail is a ride request denormalized with its resolved
// frequencies and, depending on the read path, journey plan, passenger and
// latest decision. Frequencies are always sorted by id ascending.
type RideRequestDetail struct {
	RideRequest
	Frequencies []RideFrequency `json:"frequencies"`
	Passenger   *Passenger      `json:"passenger,omitempty"`
	JourneyPlan *JourneyPlan    `json:"journey_plan,omitempty"`
	Decision    *RideManagement `json:"decision,omitempty"`
}

// RideRequestDetailV2 pairs a detail with the latest journey event label.
type RideRequestDetailV2 struct {
	RideRequest  RideRequestDetail `json:"ride_request"`
	CurrentEvent string            `json:"current_journey_event"`
}

// StatusUpdatePayload drives the admin approve/reject endpoint.
type StatusUpdatePayload struct {
	ID            uint   `json:"id" binding:"required"`
	RequestStatus string `json:"request_status" binding:"required"`
	Comment       string `json:"comment"`
}
