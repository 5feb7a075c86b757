package models

import (
	"time"
)

// Location is a geocoded pickup or drop point owned by a ride request.
type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	Address   string    `json:"address" gorm:"size:500"`
	City      string    `json:"city" gorm:"size:255"`
	ZipCode   string    `json:"zip_code" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationPayload is the location draft supplied on create/update.
type LocationPayload struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	ZipCode   string  `json:"zip_code"`
}

func (p *LocationPayload) ToEntity() *Location {
	return &Location{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Address:   p.Address,
		City:      p.City,
		ZipCode:   p.ZipCode,
	}
}
