// internal/repository/vacancy_repo.go
package repository

import (
	"context"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// VacancyRepository defines the interface for vacancy data operations.
// Vacancies are never deleted once submitted, so there is no delete here.
type VacancyRepository interface {
	// CreateVacancy adds a new draft vacancy using the provided DBExecutor.
	CreateVacancy(ctx context.Context, q DBExecutor, vacancy *domain.Vacancy) error
	// GetVacancyByID retrieves a vacancy by id.
	GetVacancyByID(ctx context.Context, q DBExecutor, id int64) (*domain.Vacancy, error)
	// UpdateVacancy persists the vacancy's mutable fields (status, upsells,
	// stamps, sync flag).
	UpdateVacancy(ctx context.Context, q DBExecutor, vacancy *domain.Vacancy) error
	// ListPublishedPastClosing returns published vacancies whose closing date
	// has passed, input for the expiry derivation job.
	ListPublishedPastClosing(ctx context.Context, q DBExecutor, now time.Time) ([]domain.Vacancy, error)
	// ListNeedingSync returns vacancies flagged for external re-sync.
	ListNeedingSync(ctx context.Context, q DBExecutor, limit int) ([]domain.Vacancy, error)
	// ClearNeedsSync resets the sync flag after a successful notification.
	ClearNeedsSync(ctx context.Context, q DBExecutor, vacancyID int64) error
}
