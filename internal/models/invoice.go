package models

import (
	"errors"
	"time"
)

// InvoiceType enumerates the kinds of invoices a client can request.
type InvoiceType string

const (
	InvoiceCommission  InvoiceType = "COMMISSION"
	InvoiceManagement  InvoiceType = "MANAGEMENT"
	InvoiceMaintenance InvoiceType = "MAINTENANCE"
	InvoiceOther       InvoiceType = "OTHER"
)

// InvoiceStatus enumerates the lifecycle states of an invoice request.
type InvoiceStatus string

const (
	InvoicePending    InvoiceStatus = "PENDING"
	InvoiceInProgress InvoiceStatus = "IN_PROGRESS"
	InvoiceCompleted  InvoiceStatus = "COMPLETED"
	InvoiceRejected   InvoiceStatus = "REJECTED"
)

// Terminal reports whether the status ends the request lifecycle.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceCompleted || s == InvoiceRejected
}

// InvoiceRequest is a client-portal request for an invoice to be issued.
type InvoiceRequest struct {
	ID          int64         `json:"id"`
	ClientID    string        `json:"client_id"`
	Type        InvoiceType   `json:"type"`
	Concept     string        `json:"concept"`
	Amount      float64       `json:"amount"`
	Status      InvoiceStatus `json:"status"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	ProcessedBy string        `json:"processed_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// InvoiceCreate represents the data needed to open an invoice request.
type InvoiceCreate struct {
	ClientID string
	Type     InvoiceType
	Concept  string
	Amount   float64
}

// ErrInvoiceNotFound is returned when an invoice request is missing.
var ErrInvoiceNotFound = errors.New("invoice request not found")
