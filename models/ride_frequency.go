package models

import (
	"strings"
	"time"
)

// Weekday is an uppercase day-of-week name, e.g. "MONDAY". Frequency matching
// compares it verbatim against the calendar date's weekday.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// WeekdayOf converts a calendar date to its uppercase day name.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToUpper(date.Weekday().String()))
}

// RideFrequency is one weekly recurrence rule. ClosingTime is the pickup
// deadline and SchoolDeadline the drop-off deadline, both as millisecond
// offsets since midnight; either may be absent.
type RideFrequency struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Day            Weekday   `json:"day" gorm:"not null;size:20"`
	ClosingTime    *int64    `json:"closing_time"`
	SchoolDeadline *int64    `json:"school_deadline"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RideRequestFrequency joins a ride request to one of its frequencies.
// The set is deleted and recreated wholesale on update.
type RideRequestFrequency struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	RideRequestID   uint      `json:"ride_request_id" gorm:"not null;index"`
	RideFrequencyID uint      `json:"ride_frequency_id" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
}

// RideFrequencyPayload is a frequency draft on create/update.
type RideFrequencyPayload struct {
	Day            string `json:"day" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	ClosingTime    *int64 `json:"closing_time" binding:"omitempty,min=0,max=86399999"`
	SchoolDeadline *int64 `json:"school_deadline" binding:"omitempty,min=0,max=86399999"`
}

func (p *RideFrequencyPayload) ToEntity() *RideFrequency {
	return &RideFrequency{
		Day:            Weekday(p.Day),
		ClosingTime:    p.ClosingTime,
		SchoolDeadline: p.SchoolDeadline,
	}
}
