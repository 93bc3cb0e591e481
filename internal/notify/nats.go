// internal/notify/nats.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// SyncSubject is the NATS subject vacancy mutations are published on.
const SyncSubject = "vacancies.changed"

// NATSNotifier publishes sync events on a NATS subject, for deployments
// where the publishing surface consumes a message bus instead of webhooks.
type NATSNotifier struct {
	conn *nats.Conn
}

// NewNATSNotifier creates a notifier over an established NATS connection.
func NewNATSNotifier(conn *nats.Conn) *NATSNotifier {
	return &NATSNotifier{conn: conn}
}

// VacancyChanged publishes the sync event. NATS publish is itself
// fire-and-forget; an error here means the event never left the process.
func (n *NATSNotifier) VacancyChanged(ctx context.Context, vacancy *domain.Vacancy) error {
	payload, err := json.Marshal(NewSyncEvent(vacancy))
	if err != nil {
		return fmt.Errorf("nats: failed to marshal sync event: %w", err)
	}
	if err := n.conn.Publish(SyncSubject, payload); err != nil {
		return fmt.Errorf("nats: failed to publish sync event: %w", err)
	}
	return nil
}
