package portal

import (
	"context"

	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/infra/provider"
)

// NewsClient implements domain.NewsSource over the portal API.
type NewsClient struct {
	*client
}

// NewNewsClient creates a new news source client.
func NewNewsClient(cfg provider.ClientConfig, logger *zap.Logger) *NewsClient {
	return &NewsClient{client: newClient("portal_news", cfg, logger)}
}

// Name returns the source identifier.
func (c *NewsClient) Name() string {
	return c.name
}

// FetchAll retrieves every published article.
func (c *NewsClient) FetchAll(ctx context.Context) ([]domain.News, error) {
	var result ListResponse[NewsItem]
	if err := c.get(ctx, NewsEndpoint, nil, &result); err != nil {
		return nil, err
	}

	items := toNews(result.Items)
	c.logger.Debug("portal news fetched", zap.Int("count", len(items)))

	return items, nil
}

// Search retrieves the articles the portal matches against query.
func (c *NewsClient) Search(ctx context.Context, query string) ([]domain.News, error) {
	var result ListResponse[NewsItem]
	if err := c.get(ctx, NewsSearchEndpoint, map[string]string{"q": query}, &result); err != nil {
		return nil, err
	}

	items := toNews(result.Items)
	c.logger.Debug("portal news searched",
		zap.String("query", query),
		zap.Int("count", len(items)),
	)

	return items, nil
}

func toNews(in []NewsItem) []domain.News {
	out := make([]domain.News, 0, len(in))
	for i := range in {
		out = append(out, in[i].ToDomain())
	}

	return out
}
