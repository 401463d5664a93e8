// Package models contains domain models and entities.
package models

import (
	"errors"
	"time"
)

// PropertyType enumerates the kinds of properties the agency lists.
type PropertyType string

const (
	PropertyFlat       PropertyType = "FLAT"
	PropertyHouse      PropertyType = "HOUSE"
	PropertyPenthouse  PropertyType = "PENTHOUSE"
	PropertyCommercial PropertyType = "COMMERCIAL"
	PropertyLand       PropertyType = "LAND"
	PropertyGarage     PropertyType = "GARAGE"
)

// PropertyStatus enumerates the lifecycle states of a listing.
type PropertyStatus string

const (
	StatusDraft     PropertyStatus = "DRAFT"
	StatusPublished PropertyStatus = "PUBLISHED"
	StatusReserved  PropertyStatus = "RESERVED"
	StatusSold      PropertyStatus = "SOLD"
	StatusArchived  PropertyStatus = "ARCHIVED"
)

// Property represents a listing entity.
type Property struct {
	ID           int64          `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	Price        float64        `json:"price"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	SquareMeters int            `json:"square_meters"`
	YearBuilt    int            `json:"year_built"`
	Floor        int            `json:"floor"`
	Type         PropertyType   `json:"type"`
	Status       PropertyStatus `json:"status"`
	Images       []PropertyImage `json:"images,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PropertyImage represents an uploaded listing image.
type PropertyImage struct {
	ID          int64     `json:"id"`
	PropertyID  int64     `json:"property_id"`
	ObjectKey   string    `json:"object_key"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// PropertyCreate represents the data needed to create a new listing.
type PropertyCreate struct {
	OwnerID      string
	Title        string
	Description  string
	Address      string
	Price        float64
	Bedrooms     int
	Bathrooms    int
	SquareMeters int
	YearBuilt    int
	Floor        int
	Type         PropertyType
	Status       PropertyStatus
}

// Domain errors shared across repositories and services.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrClientNotFound   = errors.New("client not found")
)

// OwnedBy reports whether the given user owns this listing.
func (p *Property) OwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}
