// internal/notify/notifier.go
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// Notifier propagates vacancy mutations to the external publishing surface.
// Delivery is best-effort: callers fire it in the background and log
// failures; the needs_sync flag plus the reconciliation sweep is the retry
// mechanism. A notifier error must never fail the ledger operation that
// triggered it.
type Notifier interface {
	VacancyChanged(ctx context.Context, vacancy *domain.Vacancy) error
}

// SyncEvent is the payload sent for every vacancy mutation.
type SyncEvent struct {
	EventID    string               `json:"event_id"`
	VacancyID  int64                `json:"vacancy_id"`
	EmployerID int64                `json:"employer_id"`
	Status     domain.VacancyStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewSyncEvent builds the event for a vacancy's current state.
func NewSyncEvent(vacancy *domain.Vacancy) SyncEvent {
	return SyncEvent{
		EventID:    uuid.NewString(),
		VacancyID:  vacancy.ID,
		EmployerID: vacancy.EmployerID,
		Status:     vacancy.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// NoopNotifier drops every event. Used when no sync target is configured.
type NoopNotifier struct{}

// VacancyChanged implements Notifier.
func (NoopNotifier) VacancyChanged(ctx context.Context, vacancy *domain.Vacancy) error {
	return nil
}
