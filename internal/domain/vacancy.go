// internal/domain/vacancy.go
package domain

import (
	"time"

	"github.com/lib/pq"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// VacancyStatus is the lifecycle state of a vacancy. The names follow the
// portal's own vocabulary.
type VacancyStatus string

const (
	StatusConcept        VacancyStatus = "concept"              // draft, the only state reachable on creation
	StatusIncompleet     VacancyStatus = "incompleet"           // sent back from review for fixes
	StatusWachtOpKeuring VacancyStatus = "wacht_op_goedkeuring" // submitted, awaiting approval
	StatusGepubliceerd   VacancyStatus = "gepubliceerd"         // live on the publishing surface
	StatusVerlopen       VacancyStatus = "verlopen"             // closing date passed
	StatusGedepubliceerd VacancyStatus = "gedepubliceerd"       // manually taken offline
)

// InputMode selects how the vacancy content was provided.
type InputMode string

const (
	InputModeTekst  InputMode = "tekst"  // written in the portal, requires a description
	InputModeUpload InputMode = "upload" // uploaded document, requires a document URL
)

// allowedTransitions enumerates every legal status edge. All other writes to
// Status go through here; nothing flips the field directly.
var allowedTransitions = map[VacancyStatus][]VacancyStatus{
	StatusConcept:        {StatusWachtOpKeuring},
	StatusIncompleet:     {StatusWachtOpKeuring},
	StatusWachtOpKeuring: {StatusGepubliceerd, StatusIncompleet},
	StatusGepubliceerd:   {StatusVerlopen, StatusGedepubliceerd, StatusGepubliceerd},
	StatusVerlopen:       {StatusGepubliceerd},
	StatusGedepubliceerd: {StatusGepubliceerd},
}

// CanTransition reports whether the edge from -> to is part of the state
// machine.
func CanTransition(from, to VacancyStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Vacancy is one job posting. It is never deleted once submitted; terminal
// states remain queryable for audit.
type Vacancy struct {
	ID               int64         `db:"id" json:"id"`
	EmployerID       int64         `db:"employer_id" json:"employer_id"`
	Title            string        `db:"title" json:"title"`
	Description      string        `db:"description" json:"description,omitempty"`
	DocumentURL      string        `db:"document_url" json:"document_url,omitempty"`
	InputMode        InputMode     `db:"input_mode" json:"input_mode"`
	Status           VacancyStatus `db:"status" json:"status"`
	PackageID        *int64        `db:"package_id" json:"package_id,omitempty"`
	SelectedUpsells  pq.Int64Array `db:"selected_upsells" json:"selected_upsells,omitempty"`
	CreditsSpent     int64         `db:"credits_spent" json:"credits_spent"`
	Featured         bool          `db:"featured" json:"featured"`
	SameDay          bool          `db:"same_day" json:"same_day"`
	NeedsSync        bool          `db:"needs_sync" json:"-"`
	ClosingDate      *time.Time    `db:"closing_date" json:"closing_date,omitempty"`
	SubmittedAt      *time.Time    `db:"submitted_at" json:"submitted_at,omitempty"`
	FirstPublishedAt *time.Time    `db:"first_published_at" json:"first_published_at,omitempty"`
	LastPublishedAt  *time.Time    `db:"last_published_at" json:"last_published_at,omitempty"`
	DepublishedAt    *time.Time    `db:"depublished_at" json:"depublished_at,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// NewVacancy creates a draft vacancy for an employer.
func NewVacancy(employerID int64, title string, mode InputMode) *Vacancy {
	now := time.Now().UTC()
	return &Vacancy{
		EmployerID: employerID,
		Title:      title,
		InputMode:  mode,
		Status:     StatusConcept,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EffectiveStatus derives the read-time status: a published vacancy whose
// closing date has passed reads as verlopen even before the daily job has
// flipped it.
func (v *Vacancy) EffectiveStatus(now time.Time) VacancyStatus {
	if v.Status == StatusGepubliceerd && v.ClosingDate != nil && v.ClosingDate.Before(now) {
		return StatusVerlopen
	}
	return v.Status
}

// ValidateForSubmission checks the required fields for the chosen input mode
// and that a package was selected. It never touches the ledger.
func (v *Vacancy) ValidateForSubmission() error {
	if v.Title == "" {
		return errMissing("title")
	}
	switch v.InputMode {
	case InputModeTekst:
		if v.Description == "" {
			return errMissing("description")
		}
	case InputModeUpload:
		if v.DocumentURL == "" {
			return errMissing("document_url")
		}
	default:
		return errMissing("input_mode")
	}
	if v.PackageID == nil {
		return errMissing("package_id")
	}
	return nil
}

// InvoiceDetails carries the billing address used when a submission's credit
// shortage is invoiced. All fields are mandatory once a shortage exists.
type InvoiceDetails struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Street      string `json:"street"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
}

// Validate checks that every required invoice field is present.
func (d *InvoiceDetails) Validate() error {
	if d == nil {
		return errMissing("invoice_details")
	}
	fields := []struct {
		name  string
		value string
	}{
		{"contact_name", d.ContactName},
		{"email", d.Email},
		{"street", d.Street},
		{"postal_code", d.PostalCode},
		{"city", d.City},
	}
	for _, f := range fields {
		if f.value == "" {
			return errMissing(f.name)
		}
	}
	return nil
}

func errMissing(field string) error {
	return util.NewValidationError(field, "required field is missing")
}
