package portal

import (
	"context"

	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/infra/provider"
)

// EventsClient implements domain.RemoteSource[domain.Event] over the portal API.
type EventsClient struct {
	*client
}

// NewEventsClient creates a new events source client.
func NewEventsClient(cfg provider.ClientConfig, logger *zap.Logger) *EventsClient {
	return &EventsClient{client: newClient("portal_events", cfg, logger)}
}

// Name returns the source identifier.
func (c *EventsClient) Name() string {
	return c.name
}

// FetchAll retrieves every scheduled event.
func (c *EventsClient) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var result ListResponse[EventItem]
	if err := c.get(ctx, EventsEndpoint, nil, &result); err != nil {
		return nil, err
	}

	items := make([]domain.Event, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, result.Items[i].ToDomain())
	}
	c.logger.Debug("portal events fetched", zap.Int("count", len(items)))

	return items, nil
}
