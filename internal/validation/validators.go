package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inmogo/inmogo/internal/models"
)

// Field bounds. These are business rules, not deploy-time configuration.
const (
	nameMinLen    = 2
	nameMaxLen    = 100
	addressMinLen = 5
	addressMaxLen = 200
	titleMinLen   = 5
	titleMaxLen   = 150

	valuationMessageMaxLen = 1000
	contactMessageMaxLen   = 2000
	descriptionMaxLen      = 5000
	conceptMinLen          = 5
	conceptMaxLen          = 500

	maxPrice        = 100_000_000
	maxBedrooms     = 20
	maxBathrooms    = 15
	maxSquareMeters = 10_000
	minYearBuilt    = 1800
	minFloor        = -2
	maxFloor        = 50

	// MaxUploadBytes bounds property image uploads.
	MaxUploadBytes = 10 << 20
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
	// Spanish mobile and landline numbers, optional +34 prefix.
	phoneRe = regexp.MustCompile(`^(\+34)?[6-9]\d{8}$`)
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Validator applies per-schema structural validation and sanitization.
// Validation is a pure function of its input: no I/O, no side effects.
type Validator struct {
	sanitizer *Sanitizer
}

// New creates a Validator.
func New() *Validator {
	return &Validator{sanitizer: NewSanitizer()}
}

// ValuationInput is the untyped payload of a valuation-request submission.
type ValuationInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	PropertyType string `json:"property_type"`
	Message      string `json:"message"`
}

// ValuationData is the sanitized, typed result of a valuation submission.
type ValuationData struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	PropertyType models.PropertyType
	Message      string
}

// Valuation validates a valuation-request payload.
func (v *Validator) Valuation(in ValuationInput) (ValuationData, FieldErrors) {
	errs := FieldErrors{}
	out := ValuationData{
		Name:    v.sanitizer.Clean(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Address: v.sanitizer.Clean(in.Address),
		Message: v.sanitizer.Clean(in.Message),
	}

	checkLength(errs, "name", out.Name, nameMinLen, nameMaxLen)
	checkEmail(errs, "email", out.Email)
	checkPhone(errs, "phone", out.Phone, true)
	checkLength(errs, "address", out.Address, addressMinLen, addressMaxLen)
	out.PropertyType = checkPropertyType(errs, "property_type", in.PropertyType)
	if utf8.RuneCountInString(out.Message) > valuationMessageMaxLen {
		errs.Add("message", fmt.Sprintf("must be at most %d characters", valuationMessageMaxLen))
	}

	return out, errs
}

// ContactInput is the untyped payload of a contact-form submission.
type ContactInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID *int64 `json:"property_id"`
}

// ContactData is the sanitized, typed result of a contact submission.
type ContactData struct {
	Name       string
	Email      string
	Phone      string
	Message    string
	PropertyID *int64
}

// Contact validates a contact-form payload. Phone is optional here.
func (v *Validator) Contact(in ContactInput) (ContactData, FieldErrors) {
	errs := FieldErrors{}
	out := ContactData{
		Name:       v.sanitizer.Clean(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      strings.TrimSpace(in.Phone),
		Message:    v.sanitizer.Clean(in.Message),
		PropertyID: in.PropertyID,
	}

	checkLength(errs, "name", out.Name, nameMinLen, nameMaxLen)
	checkEmail(errs, "email", out.Email)
	checkPhone(errs, "phone", out.Phone, false)
	if out.Message == "" {
		errs.Add("message", "is required")
	} else if utf8.RuneCountInString(out.Message) > contactMessageMaxLen {
		errs.Add("message", fmt.Sprintf("must be at most %d characters", contactMessageMaxLen))
	}
	if in.PropertyID != nil && *in.PropertyID <= 0 {
		errs.Add("property_id", "must be a positive id")
	}

	return out, errs
}

// InvoiceInput is the untyped payload of an invoice-request submission.
type InvoiceInput struct {
	Type    string  `json:"type"`
	Concept string  `json:"concept"`
	Amount  float64 `json:"amount"`
}

// InvoiceData is the sanitized, typed result of an invoice submission.
type InvoiceData struct {
	Type    models.InvoiceType
	Concept string
	Amount  float64
}

// Invoice validates an invoice-request payload.
func (v *Validator) Invoice(in InvoiceInput) (InvoiceData, FieldErrors) {
	errs := FieldErrors{}
	out := InvoiceData{
		Concept: v.sanitizer.Clean(in.Concept),
		Amount:  in.Amount,
	}

	switch models.InvoiceType(strings.ToUpper(strings.TrimSpace(in.Type))) {
	case models.InvoiceCommission, models.InvoiceManagement, models.InvoiceMaintenance, models.InvoiceOther:
		out.Type = models.InvoiceType(strings.ToUpper(strings.TrimSpace(in.Type)))
	default:
		errs.Add("type", "must be one of COMMISSION, MANAGEMENT, MAINTENANCE, OTHER")
	}
	checkLength(errs, "concept", out.Concept, conceptMinLen, conceptMaxLen)
	if out.Amount <= 0 || out.Amount > maxPrice {
		errs.Add("amount", fmt.Sprintf("must be positive and at most %d", maxPrice))
	}

	return out, errs
}

// InvoiceStatusInput is the payload of an admin status update.
type InvoiceStatusInput struct {
	Status string `json:"status"`
}

// InvoiceStatus validates a status-transition payload.
func (v *Validator) InvoiceStatus(in InvoiceStatusInput) (models.InvoiceStatus, FieldErrors) {
	errs := FieldErrors{}
	status := models.InvoiceStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch status {
	case models.InvoicePending, models.InvoiceInProgress, models.InvoiceCompleted, models.InvoiceRejected:
		return status, errs
	default:
		errs.Add("status", "must be one of PENDING, IN_PROGRESS, COMPLETED, REJECTED")
		return "", errs
	}
}

// PropertyInput is the untyped payload of a property create or update.
type PropertyInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	SquareMeters int     `json:"square_meters"`
	YearBuilt    int     `json:"year_built"`
	Floor        int     `json:"floor"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
}

// PropertyData is the sanitized, typed result of a property payload.
type PropertyData struct {
	Title        string
	Description  string
	Address      string
	Price        float64
	Bedrooms     int
	Bathrooms    int
	SquareMeters int
	YearBuilt    int
	Floor        int
	Type         models.PropertyType
	Status       models.PropertyStatus
}

// Property validates a property create/update payload.
func (v *Validator) Property(in PropertyInput) (PropertyData, FieldErrors) {
	errs := FieldErrors{}
	out := PropertyData{
		Title:        v.sanitizer.Clean(in.Title),
		Description:  v.sanitizer.Clean(in.Description),
		Address:      v.sanitizer.Clean(in.Address),
		Price:        in.Price,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		SquareMeters: in.SquareMeters,
		YearBuilt:    in.YearBuilt,
		Floor:        in.Floor,
	}

	checkLength(errs, "title", out.Title, titleMinLen, titleMaxLen)
	if utf8.RuneCountInString(out.Description) > descriptionMaxLen {
		errs.Add("description", fmt.Sprintf("must be at most %d characters", descriptionMaxLen))
	}
	checkLength(errs, "address", out.Address, addressMinLen, addressMaxLen)
	if in.Price <= 0 || in.Price > maxPrice {
		errs.Add("price", fmt.Sprintf("must be positive and at most %d", maxPrice))
	}
	if in.Bedrooms < 0 || in.Bedrooms > maxBedrooms {
		errs.Add("bedrooms", fmt.Sprintf("must be between 0 and %d", maxBedrooms))
	}
	if in.Bathrooms < 0 || in.Bathrooms > maxBathrooms {
		errs.Add("bathrooms", fmt.Sprintf("must be between 0 and %d", maxBathrooms))
	}
	if in.SquareMeters < 1 || in.SquareMeters > maxSquareMeters {
		errs.Add("square_meters", fmt.Sprintf("must be between 1 and %d", maxSquareMeters))
	}
	maxYear := time.Now().Year() + 5
	if in.YearBuilt < minYearBuilt || in.YearBuilt > maxYear {
		errs.Add("year_built", fmt.Sprintf("must be between %d and %d", minYearBuilt, maxYear))
	}
	if in.Floor < minFloor || in.Floor > maxFloor {
		errs.Add("floor", fmt.Sprintf("must be between %d and %d", minFloor, maxFloor))
	}
	out.Type = checkPropertyType(errs, "type", in.Type)
	switch models.PropertyStatus(strings.ToUpper(strings.TrimSpace(in.Status))) {
	case models.StatusDraft, models.StatusPublished, models.StatusReserved, models.StatusSold, models.StatusArchived:
		out.Status = models.PropertyStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	default:
		errs.Add("status", "must be one of DRAFT, PUBLISHED, RESERVED, SOLD, ARCHIVED")
	}

	return out, errs
}

// UploadInput is the metadata accompanying a property image upload.
type UploadInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// UploadData is the sanitized, typed result of an upload-metadata payload.
type UploadData struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// Upload validates image-upload metadata.
func (v *Validator) Upload(in UploadInput) (UploadData, FieldErrors) {
	errs := FieldErrors{}
	out := UploadData{
		Filename:    v.sanitizer.Clean(in.Filename),
		ContentType: strings.ToLower(strings.TrimSpace(in.ContentType)),
		SizeBytes:   in.SizeBytes,
	}

	if out.Filename == "" || len(out.Filename) > 255 || strings.ContainsAny(out.Filename, "/\\") {
		errs.Add("filename", "must be a plain file name up to 255 characters")
	}
	if !allowedImageTypes[out.ContentType] {
		errs.Add("content_type", "must be one of image/jpeg, image/png, image/webp")
	}
	if out.SizeBytes <= 0 || out.SizeBytes > MaxUploadBytes {
		errs.Add("size_bytes", "must be positive and at most 10 MB")
	}

	return out, errs
}

// checkLength bounds are character counts, so accented text is measured in
// runes rather than bytes.
func checkLength(errs FieldErrors, field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min {
		errs.Add(field, fmt.Sprintf("must be at least %d characters", min))
	} else if n > max {
		errs.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func checkEmail(errs FieldErrors, field, value string) {
	if value == "" {
		errs.Add(field, "is required")
	} else if len(value) > 254 || !emailRe.MatchString(value) {
		errs.Add(field, "must be a valid email address")
	}
}

func checkPhone(errs FieldErrors, field, value string, required bool) {
	if value == "" {
		if required {
			errs.Add(field, "is required")
		}
		return
	}
	if !phoneRe.MatchString(value) {
		errs.Add(field, "must be a valid Spanish phone number")
	}
}

func checkPropertyType(errs FieldErrors, field, value string) models.PropertyType {
	pt := models.PropertyType(strings.ToUpper(strings.TrimSpace(value)))
	switch pt {
	case models.PropertyFlat, models.PropertyHouse, models.PropertyPenthouse,
		models.PropertyCommercial, models.PropertyLand, models.PropertyGarage:
		return pt
	default:
		errs.Add(field, "must be one of FLAT, HOUSE, PENTHOUSE, COMMERCIAL, LAND, GARAGE")
		return ""
	}
}
