// internal/repository/postgres/employer_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// EmployerRepository implements repository.EmployerRepository for PostgreSQL.
type EmployerRepository struct{}

// NewEmployerRepository creates a new EmployerRepository.
func NewEmployerRepository() repository.EmployerRepository {
	return &EmployerRepository{}
}

// CreateEmployer inserts a new employer using the provided DBExecutor.
func (r *EmployerRepository) CreateEmployer(ctx context.Context, q repository.DBExecutor, employer *domain.Employer) error {
	query := `INSERT INTO employers (name, created_at, updated_at)
              VALUES ($1, $2, $3) RETURNING id`
	err := q.QueryRowContext(ctx, query, employer.Name, employer.CreatedAt, employer.UpdatedAt).Scan(&employer.ID)
	if err != nil {
		return fmt.Errorf("failed to create employer: %w", err)
	}
	return nil
}

// GetEmployerByID retrieves an employer by id using the provided DBExecutor.
func (r *EmployerRepository) GetEmployerByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Employer, error) {
	var employer domain.Employer
	query := `SELECT id, name, created_at, updated_at FROM employers WHERE id = $1`
	err := q.GetContext(ctx, &employer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to get employer by ID %d: %w", id, err)
	}
	return &employer, nil
}
