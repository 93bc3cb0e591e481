// internal/domain/employer.go
package domain

import "time"

// Employer is the account that owns a wallet and publishes vacancies.
// Company enrichment (KvK lookup, contacts, logo) lives outside this
// subsystem; the ledger only needs a stable owner.
type Employer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewEmployer creates a new Employer instance.
func NewEmployer(name string) *Employer {
	now := time.Now().UTC()
	return &Employer{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
