// internal/notify/webhook.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/domain"
)

// WebhookNotifier POSTs sync events to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier targeting the given URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// VacancyChanged delivers the sync event as a JSON POST. Any non-2xx
// response counts as a failure so the reconciliation sweep retries it.
func (n *WebhookNotifier) VacancyChanged(ctx context.Context, vacancy *domain.Vacancy) error {
	payload, err := json.Marshal(NewSyncEvent(vacancy))
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal sync event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: sync endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
