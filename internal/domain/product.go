// internal/domain/product.go
package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductKind distinguishes publication packages from upsells.
type ProductKind string

const (
	ProductKindPakket ProductKind = "pakket"
	ProductKindUpsell ProductKind = "upsell"
)

// Product is a purchasable item: a publication package or an upsell.
// Packages carry a base publication duration and may bundle upsells at no
// extra cost; those appear in IncludedUpsells.
type Product struct {
	ID              int64           `db:"id" json:"id"`
	Kind            ProductKind     `db:"kind" json:"kind"`
	Name            string          `db:"name" json:"name"`
	Credits         int64           `db:"credits" json:"credits"`
	Price           decimal.Decimal `db:"price" json:"price"`
	DurationDays    int             `db:"duration_days" json:"duration_days,omitempty"` // packages only
	Featured        bool            `db:"featured" json:"featured"`                     // upsell flag: featured placement
	SameDay         bool            `db:"same_day" json:"same_day"`                     // upsell flag: same-day publication
	IncludedUpsells pq.Int64Array   `db:"included_upsells" json:"included_upsells,omitempty"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// PriceQuote is the outcome of resolving a package plus selected upsells.
type PriceQuote struct {
	TotalCredits      int64           `json:"total_credits"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	ProductIDs        []int64         `json:"product_ids"`         // package + selected upsells, charge order
	IncludedUpsellIDs []int64         `json:"included_upsell_ids"` // bundled at zero cost
	Featured          bool            `json:"featured"`
	SameDay           bool            `json:"same_day"`
	DurationDays      int             `json:"duration_days"` // package base duration
}
