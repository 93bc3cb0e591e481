// internal/repository/employer_repo.go
package repository

import (
	"context"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// EmployerRepository defines the interface for employer data operations.
type EmployerRepository interface {
	// CreateEmployer adds a new employer using the provided DBExecutor.
	CreateEmployer(ctx context.Context, q DBExecutor, employer *domain.Employer) error
	// GetEmployerByID retrieves an employer by id using the provided DBExecutor.
	GetEmployerByID(ctx context.Context, q DBExecutor, id int64) (*domain.Employer, error)
}
