// internal/repository/product_repo.go
package repository

import (
	"context"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// ProductRepository defines the interface for product catalog reads. The
// catalog is managed elsewhere; the ledger only consumes it.
type ProductRepository interface {
	// GetProductByID retrieves a single product.
	GetProductByID(ctx context.Context, q DBExecutor, id int64) (*domain.Product, error)
	// GetProductsByIDs batch-fetches products by id set in one round trip.
	// The result carries no ordering guarantee; missing ids simply do not
	// appear, detection is the caller's job.
	GetProductsByIDs(ctx context.Context, q DBExecutor, ids []int64) ([]domain.Product, error)
	// ListActiveProducts returns the purchasable catalog.
	ListActiveProducts(ctx context.Context, q DBExecutor) ([]domain.Product, error)
}
