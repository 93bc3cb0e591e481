// internal/service/pricing_service.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
)

// PricingService computes the total credits and price of a vacancy action
// from its package and selected upsells. Unknown product ids fail the whole
// resolution; nothing is ever partially charged.
type PricingService interface {
	// Resolve prices a package plus selected upsells.
	Resolve(ctx context.Context, packageID int64, upsellIDs []int64) (*domain.PriceQuote, error)
	// ResolveUpsells prices upsells on their own, for the boost path.
	ResolveUpsells(ctx context.Context, upsellIDs []int64) (*domain.PriceQuote, error)
	// Catalog lists the purchasable packages and upsells.
	Catalog(ctx context.Context) ([]domain.Product, error)
}

type pricingService struct {
	dbExecutor  repository.DBExecutor
	productRepo repository.ProductRepository
}

// NewPricingService creates a new instance of PricingService.
func NewPricingService(dbExecutor repository.DBExecutor, productRepo repository.ProductRepository) PricingService {
	return &pricingService{
		dbExecutor:  dbExecutor,
		productRepo: productRepo,
	}
}

// Resolve batch-fetches the package and upsells in one round trip and sums
// their credits and prices. Upsells bundled with the package come back in
// IncludedUpsellIDs at zero cost.
func (s *pricingService) Resolve(ctx context.Context, packageID int64, upsellIDs []int64) (*domain.PriceQuote, error) {
	ids := append([]int64{packageID}, upsellIDs...)
	byID, err := s.fetchProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	pkg, ok := byID[packageID]
	if !ok || pkg.Kind != domain.ProductKindPakket {
		return nil, util.NewValidationError("package_id", fmt.Sprintf("unknown package %d", packageID))
	}

	quote := &domain.PriceQuote{
		TotalCredits:      pkg.Credits,
		TotalPrice:        pkg.Price,
		ProductIDs:        []int64{pkg.ID},
		IncludedUpsellIDs: append([]int64(nil), pkg.IncludedUpsells...),
		DurationDays:      pkg.DurationDays,
	}

	if err := s.addUpsells(quote, byID, upsellIDs); err != nil {
		return nil, err
	}
	return quote, nil
}

// ResolveUpsells prices a set of upsells with no package, as the boost path
// needs.
func (s *pricingService) ResolveUpsells(ctx context.Context, upsellIDs []int64) (*domain.PriceQuote, error) {
	byID, err := s.fetchProducts(ctx, upsellIDs)
	if err != nil {
		return nil, err
	}

	quote := &domain.PriceQuote{TotalPrice: decimal.Zero}
	if err := s.addUpsells(quote, byID, upsellIDs); err != nil {
		return nil, err
	}
	return quote, nil
}

// Catalog lists the active packages and upsells the portal can offer.
func (s *pricingService) Catalog(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.ListActiveProducts(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	return products, nil
}

func (s *pricingService) fetchProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	products, err := s.productRepo.GetProductsByIDs(ctx, s.dbExecutor, ids)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *pricingService) addUpsells(quote *domain.PriceQuote, byID map[int64]domain.Product, upsellIDs []int64) error {
	for _, id := range upsellIDs {
		upsell, ok := byID[id]
		if !ok || upsell.Kind != domain.ProductKindUpsell {
			return util.NewValidationError("upsell_ids", fmt.Sprintf("unknown upsell %d", id))
		}
		quote.TotalCredits += upsell.Credits
		quote.TotalPrice = quote.TotalPrice.Add(upsell.Price)
		quote.ProductIDs = append(quote.ProductIDs, upsell.ID)
		if upsell.Featured {
			quote.Featured = true
		}
		if upsell.SameDay {
			quote.SameDay = true
		}
	}
	return nil
}
