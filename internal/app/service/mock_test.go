package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portal-sync-service/internal/app/cache"
	"portal-sync-service/internal/domain"
)

var (
	errNetwork = errors.New("simulated network failure")
	errDisk    = errors.New("simulated disk failure")
)

// --- Key-value store -------------------------------------------------------

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	failSet bool
	sets    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) GetString(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]

	return v, ok, nil
}

func (m *memoryStore) SetString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet {
		return errDisk
	}
	m.sets++
	m.values[key] = value

	return nil
}

func (m *memoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

func (m *memoryStore) Ping(_ context.Context) error {
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[key]

	return ok
}

func (m *memoryStore) setFailSet(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failSet = fail
}

// --- Remote sources --------------------------------------------------------

// fakeSource is a RemoteSource whose result, latency and failure mode are
// set per test. A non-nil gate blocks FetchAll until it is closed.
type fakeSource[T domain.Record] struct {
	mu        sync.Mutex
	items     []T
	err       error
	delay     time.Duration
	gate      chan struct{}
	panicMsg  string
	fetchCall int
	lastCtx   context.Context
}

func (f *fakeSource[T]) Name() string {
	return "fake"
}

func (f *fakeSource[T]) FetchAll(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	f.fetchCall++
	f.lastCtx = ctx
	items, err, delay, gate, panicMsg := f.items, f.err, f.delay, f.gate, f.panicMsg
	f.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}
	if werr := waitFor(ctx, delay, gate); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}

	return append([]T(nil), items...), nil
}

func (f *fakeSource[T]) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetchCall
}

func (f *fakeSource[T]) set(items []T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = items
	f.err = err
}

type fakeNewsSource struct {
	*fakeSource[domain.News]

	searchMu    sync.Mutex
	searchItems []domain.News
	searchErr   error
	searchGate  chan struct{}
	searchCall  int
	queries     []string
}

func newFakeNewsSource(items []domain.News) *fakeNewsSource {
	return &fakeNewsSource{fakeSource: &fakeSource[domain.News]{items: items}}
}

func (f *fakeNewsSource) Search(ctx context.Context, query string) ([]domain.News, error) {
	f.searchMu.Lock()
	f.searchCall++
	f.queries = append(f.queries, query)
	items, err, gate := f.searchItems, f.searchErr, f.searchGate
	f.searchMu.Unlock()

	if werr := waitFor(ctx, 0, gate); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}

	return append([]domain.News(nil), items...), nil
}

func (f *fakeNewsSource) searchCalls() int {
	f.searchMu.Lock()
	defer f.searchMu.Unlock()

	return f.searchCall
}

func waitFor(ctx context.Context, delay time.Duration, gate chan struct{}) error {
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// hangingGate returns a gate that stays closed for the duration of the test.
func hangingGate(t *testing.T) chan struct{} {
	t.Helper()

	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })

	return gate
}

// --- Fixtures --------------------------------------------------------------

var published = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

func newsItem(id, title string) domain.News {
	return domain.News{ID: id, Title: title, PublishedAt: published}
}

func eventItem(id, title string) domain.Event {
	return domain.Event{ID: id, Title: title, StartsAt: published, EndsAt: published.Add(time.Hour)}
}

func remoteNews() []domain.News {
	return []domain.News{
		newsItem("n1", "FBLA State Leadership Conference registration opens"),
		newsItem("n2", "Chapter wins community service award"),
		newsItem("n3", "Officer elections next week"),
		newsItem("n4", "Business Ethics study guide posted"),
		newsItem("n5", "Spring fundraiser results"),
	}
}

func newNewsFixture(t *testing.T, cached []domain.News) (*NewsRepository, *cache.LocalCache[domain.News], *memoryStore, *fakeNewsSource) {
	t.Helper()

	store := newMemoryStore()
	localCache := cache.NewNewsCache(store, zap.NewNop())
	if len(cached) > 0 {
		require.NoError(t, localCache.WriteAll(context.Background(), cached))
	}
	source := newFakeNewsSource(remoteNews())
	repo := NewNewsRepository(localCache, source, SyncConfig{}, zap.NewNop())

	return repo, localCache, store, source
}

func newEventsFixture(t *testing.T, cached []domain.Event) (*SyncRepository[domain.Event], *cache.LocalCache[domain.Event], *memoryStore, *fakeSource[domain.Event]) {
	t.Helper()

	store := newMemoryStore()
	localCache := cache.NewEventsCache(store, zap.NewNop())
	if len(cached) > 0 {
		require.NoError(t, localCache.WriteAll(context.Background(), cached))
	}
	source := &fakeSource[domain.Event]{}
	repo := NewEventsRepository(localCache, source, SyncConfig{}, zap.NewNop())

	return repo, localCache, store, source
}

func drain(t *testing.T, d interface{ Drain(context.Context) error }) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Drain(ctx), "background tasks did not finish")
}
