// internal/domain/vacancy_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to VacancyStatus }{
		{StatusConcept, StatusWachtOpKeuring},
		{StatusIncompleet, StatusWachtOpKeuring},
		{StatusWachtOpKeuring, StatusGepubliceerd},
		{StatusWachtOpKeuring, StatusIncompleet},
		{StatusGepubliceerd, StatusVerlopen},
		{StatusGepubliceerd, StatusGedepubliceerd},
		{StatusVerlopen, StatusGepubliceerd},
		{StatusGedepubliceerd, StatusGepubliceerd},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to VacancyStatus }{
		{StatusConcept, StatusGepubliceerd},
		{StatusConcept, StatusIncompleet},
		{StatusVerlopen, StatusWachtOpKeuring},
		{StatusGedepubliceerd, StatusConcept},
		{StatusWachtOpKeuring, StatusConcept},
		{StatusVerlopen, StatusConcept},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("PublishedPastClosingReadsVerlopen", func(t *testing.T) {
		v := &Vacancy{Status: StatusGepubliceerd, ClosingDate: &past}
		assert.Equal(t, StatusVerlopen, v.EffectiveStatus(now))
	})

	t.Run("PublishedBeforeClosingStaysPublished", func(t *testing.T) {
		v := &Vacancy{Status: StatusGepubliceerd, ClosingDate: &future}
		assert.Equal(t, StatusGepubliceerd, v.EffectiveStatus(now))
	})

	t.Run("NoClosingDateNeverDerives", func(t *testing.T) {
		v := &Vacancy{Status: StatusGepubliceerd}
		assert.Equal(t, StatusGepubliceerd, v.EffectiveStatus(now))
	})

	t.Run("OtherStatusesUntouched", func(t *testing.T) {
		v := &Vacancy{Status: StatusConcept, ClosingDate: &past}
		assert.Equal(t, StatusConcept, v.EffectiveStatus(now))
	})
}

func TestValidateForSubmission(t *testing.T) {
	packageID := int64(1)

	base := func() *Vacancy {
		return &Vacancy{
			Title:       "Teamleider logistiek",
			Description: "Dagdiensten in Zwolle.",
			InputMode:   InputModeTekst,
			PackageID:   &packageID,
		}
	}

	t.Run("ValidTekstVacancy", func(t *testing.T) {
		assert.NoError(t, base().ValidateForSubmission())
	})

	t.Run("TekstNeedsDescription", func(t *testing.T) {
		v := base()
		v.Description = ""
		assert.Error(t, v.ValidateForSubmission())
	})

	t.Run("UploadNeedsDocument", func(t *testing.T) {
		v := base()
		v.InputMode = InputModeUpload
		assert.Error(t, v.ValidateForSubmission())

		v.DocumentURL = "https://cdn.example/v.pdf"
		assert.NoError(t, v.ValidateForSubmission())
	})

	t.Run("PackageIsMandatory", func(t *testing.T) {
		v := base()
		v.PackageID = nil
		assert.Error(t, v.ValidateForSubmission())
	})
}

func TestInvoiceDetailsValidate(t *testing.T) {
	full := &InvoiceDetails{
		ContactName: "A. de Vries",
		Email:       "facturen@acme.nl",
		Street:      "Keizersgracht 1",
		PostalCode:  "1015 CN",
		City:        "Amsterdam",
	}
	assert.NoError(t, full.Validate())

	t.Run("NilDetails", func(t *testing.T) {
		var d *InvoiceDetails
		assert.Error(t, d.Validate())
	})

	t.Run("EachFieldRequired", func(t *testing.T) {
		missing := []InvoiceDetails{
			{Email: full.Email, Street: full.Street, PostalCode: full.PostalCode, City: full.City},
			{ContactName: full.ContactName, Street: full.Street, PostalCode: full.PostalCode, City: full.City},
			{ContactName: full.ContactName, Email: full.Email, PostalCode: full.PostalCode, City: full.City},
			{ContactName: full.ContactName, Email: full.Email, Street: full.Street, City: full.City},
			{ContactName: full.ContactName, Email: full.Email, Street: full.Street, PostalCode: full.PostalCode},
		}
		for i := range missing {
			assert.Error(t, missing[i].Validate())
		}
	})
}
