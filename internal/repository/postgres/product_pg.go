// internal/repository/postgres/product_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// ProductRepository implements repository.ProductRepository for PostgreSQL.
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository() repository.ProductRepository {
	return &ProductRepository{}
}

const productColumns = `id, kind, name, credits, price, duration_days, featured, same_day,
       included_upsells, active, created_at`

// GetProductByID retrieves a single product.
func (r *ProductRepository) GetProductByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Product, error) {
	var product domain.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := q.GetContext(ctx, &product, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetProductsByIDs batch-fetches products by id set in one round trip,
// instead of looping one query per product.
func (r *ProductRepository) GetProductsByIDs(ctx context.Context, q repository.DBExecutor, ids []int64) ([]domain.Product, error) {
	products := []domain.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	if err := q.SelectContext(ctx, &products, query, pq.Int64Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to batch-fetch products: %w", err)
	}
	return products, nil
}

// ListActiveProducts returns the purchasable catalog.
func (r *ProductRepository) ListActiveProducts(ctx context.Context, q repository.DBExecutor) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE active = TRUE ORDER BY kind, id`
	if err := q.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}
