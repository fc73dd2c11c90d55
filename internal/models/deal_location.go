package models

import (
	"time"
)

// DealLocation is a geocoded pin for a closed transaction
type DealLocation struct {
	ID      string    `json:"id" db:"id"`
	Lat     float64   `json:"lat" db:"lat"`
	Lng     float64   `json:"lng" db:"lng"`
	Name    string    `json:"name,omitempty" db:"name"`
	City    string    `json:"city,omitempty" db:"city"`
	State   string    `json:"state,omitempty" db:"state"`
	AddedAt time.Time `json:"addedAt" db:"added_at"`
}

// DealLocationRequest is the map-click submission.
// Pointers distinguish a missing coordinate from 0.
type DealLocationRequest struct {
	Lat   *float64 `json:"lat" binding:"required"`
	Lng   *float64 `json:"lng" binding:"required"`
	Name  string   `json:"name,omitempty" binding:"max=200"`
	City  string   `json:"city,omitempty" binding:"max=100"`
	State string   `json:"state,omitempty" binding:"max=100"`
}

// DealLocationNameRequest renames a pin
type DealLocationNameRequest struct {
	Name string `json:"name" binding:"max=200"`
}
