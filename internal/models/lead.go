package models

import (
	"errors"
	"time"
)

// ValuationRequest is a public submission asking for a property valuation.
type ValuationRequest struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	PropertyType PropertyType `json:"property_type"`
	Message      string       `json:"message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ContactRequest is a public contact-form submission.
type ContactRequest struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	PropertyID *int64    `json:"property_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrLeadNotFound is returned when a valuation or contact record is missing.
var ErrLeadNotFound = errors.New("lead not found")
