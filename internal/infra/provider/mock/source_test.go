package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portal-sync-service/internal/domain"
)

var (
	_ domain.NewsSource                  = (*NewsSource)(nil)
	_ domain.RemoteSource[domain.Event] = (*EventsSource)(nil)
)

func TestNewsSource_FetchAll(t *testing.T) {
	src := NewNewsSource(0, zap.NewNop())

	items, err := src.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, "mock_news", src.Name())
	assert.NotEmpty(t, domain.FilterNews(items, "FBLA"), "fixed data mentions FBLA")
}

func TestNewsSource_ReturnsFreshCopies(t *testing.T) {
	src := NewNewsSource(0, zap.NewNop())

	first, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Title)
}

func TestNewsSource_Search(t *testing.T) {
	src := NewNewsSource(0, zap.NewNop())

	tests := []struct {
		query string
		want  []string
	}{
		{query: "leadership", want: []string{"news-1"}},
		{query: "CHAPTER", want: []string{"news-2", "news-3"}},
		{query: "no such article", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			items, err := src.Search(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestEventsSource_FetchAll(t *testing.T) {
	src := NewEventsSource(0, zap.NewNop())

	items, err := src.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, "mock_events", src.Name())
	for _, e := range items {
		assert.True(t, e.EndsAt.After(e.StartsAt), e.ID)
	}
}

func TestSource_Latency(t *testing.T) {
	src := NewEventsSource(50*time.Millisecond, zap.NewNop())

	start := time.Now()
	_, err := src.FetchAll(context.Background())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSource_LatencyRespectsContext(t *testing.T) {
	src := NewNewsSource(time.Minute, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.FetchAll(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = src.Search(ctx, "fbla")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSource_FailureInjection(t *testing.T) {
	src := NewNewsSource(0, zap.NewNop())
	outage := errors.New("portal unavailable")

	src.SetFailure(outage)

	_, err := src.FetchAll(context.Background())
	assert.ErrorIs(t, err, outage)
	_, err = src.Search(context.Background(), "fbla")
	assert.ErrorIs(t, err, outage)

	src.SetFailure(nil)

	items, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 5)
}
