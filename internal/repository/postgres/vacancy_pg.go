// internal/repository/postgres/vacancy_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// VacancyRepository implements repository.VacancyRepository for PostgreSQL.
type VacancyRepository struct{}

// NewVacancyRepository creates a new VacancyRepository.
func NewVacancyRepository() repository.VacancyRepository {
	return &VacancyRepository{}
}

const vacancyColumns = `id, employer_id, title, description, document_url, input_mode, status,
       package_id, selected_upsells, credits_spent, featured, same_day, needs_sync,
       closing_date, submitted_at, first_published_at, last_published_at, depublished_at,
       created_at, updated_at`

// CreateVacancy inserts a new draft vacancy.
func (r *VacancyRepository) CreateVacancy(ctx context.Context, q repository.DBExecutor, vacancy *domain.Vacancy) error {
	query := `INSERT INTO vacancies
              (employer_id, title, description, document_url, input_mode, status,
               package_id, selected_upsells, credits_spent, featured, same_day, needs_sync,
               closing_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
              RETURNING id`
	err := q.QueryRowContext(ctx, query,
		vacancy.EmployerID, vacancy.Title, vacancy.Description, vacancy.DocumentURL,
		vacancy.InputMode, vacancy.Status, vacancy.PackageID, vacancy.SelectedUpsells,
		vacancy.CreditsSpent, vacancy.Featured, vacancy.SameDay, vacancy.NeedsSync,
		vacancy.ClosingDate, vacancy.CreatedAt, vacancy.UpdatedAt,
	).Scan(&vacancy.ID)
	if err != nil {
		return fmt.Errorf("failed to create vacancy: %w", err)
	}
	return nil
}

// GetVacancyByID retrieves a vacancy by id.
func (r *VacancyRepository) GetVacancyByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Vacancy, error) {
	var vacancy domain.Vacancy
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`
	err := q.GetContext(ctx, &vacancy, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrVacancyNotFound
		}
		return nil, fmt.Errorf("failed to get vacancy by ID %d: %w", id, err)
	}
	return &vacancy, nil
}

// UpdateVacancy persists the vacancy's mutable fields.
func (r *VacancyRepository) UpdateVacancy(ctx context.Context, q repository.DBExecutor, vacancy *domain.Vacancy) error {
	vacancy.UpdatedAt = time.Now().UTC()
	query := `UPDATE vacancies
              SET title = $1, description = $2, document_url = $3, input_mode = $4,
                  status = $5, package_id = $6, selected_upsells = $7, credits_spent = $8,
                  featured = $9, same_day = $10, needs_sync = $11, closing_date = $12,
                  submitted_at = $13, first_published_at = $14, last_published_at = $15,
                  depublished_at = $16, updated_at = $17
              WHERE id = $18`
	result, err := q.ExecContext(ctx, query,
		vacancy.Title, vacancy.Description, vacancy.DocumentURL, vacancy.InputMode,
		vacancy.Status, vacancy.PackageID, vacancy.SelectedUpsells, vacancy.CreditsSpent,
		vacancy.Featured, vacancy.SameDay, vacancy.NeedsSync, vacancy.ClosingDate,
		vacancy.SubmittedAt, vacancy.FirstPublishedAt, vacancy.LastPublishedAt,
		vacancy.DepublishedAt, vacancy.UpdatedAt, vacancy.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vacancy %d: %w", vacancy.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for vacancy %d: %w", vacancy.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrVacancyNotFound
	}
	return nil
}

// ListPublishedPastClosing returns published vacancies whose closing date
// has passed.
func (r *VacancyRepository) ListPublishedPastClosing(ctx context.Context, q repository.DBExecutor, now time.Time) ([]domain.Vacancy, error) {
	vacancies := []domain.Vacancy{}
	query := `SELECT ` + vacancyColumns + `
              FROM vacancies
              WHERE status = $1 AND closing_date IS NOT NULL AND closing_date < $2
              ORDER BY id ASC`
	if err := q.SelectContext(ctx, &vacancies, query, domain.StatusGepubliceerd, now); err != nil {
		return nil, fmt.Errorf("failed to list overdue vacancies: %w", err)
	}
	return vacancies, nil
}

// ListNeedingSync returns vacancies flagged for external re-sync.
func (r *VacancyRepository) ListNeedingSync(ctx context.Context, q repository.DBExecutor, limit int) ([]domain.Vacancy, error) {
	vacancies := []domain.Vacancy{}
	query := `SELECT ` + vacancyColumns + `
              FROM vacancies
              WHERE needs_sync = TRUE
              ORDER BY updated_at ASC
              LIMIT $1`
	if err := q.SelectContext(ctx, &vacancies, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list vacancies needing sync: %w", err)
	}
	return vacancies, nil
}

// ClearNeedsSync resets the sync flag after a successful notification.
func (r *VacancyRepository) ClearNeedsSync(ctx context.Context, q repository.DBExecutor, vacancyID int64) error {
	query := `UPDATE vacancies SET needs_sync = FALSE WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, vacancyID); err != nil {
		return fmt.Errorf("failed to clear sync flag for vacancy %d: %w", vacancyID, err)
	}
	return nil
}
