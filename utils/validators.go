package utils

import (
	"regexp"
	"time"
)

const millisPerDay = 24 * 60 * 60 * 1000

func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// IsValidMillisOfDay reports whether ms is a valid time-of-day offset.
func IsValidMillisOfDay(ms int64) bool {
	return ms >= 0 && ms < millisPerDay
}

// ParseDateParam parses a YYYY-MM-DD path or query parameter.
func ParseDateParam(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
