package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/search"
	"github.com/poiesic/geosuggest/source"
	"github.com/poiesic/geosuggest/storage"
	"github.com/poiesic/geosuggest/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func catalog() []*core.Country {
	return []*core.Country{
		{ID: 1, Name: "France", Capital: "Paris"},
		{ID: 2, Name: "Germany", Capital: "Berlin"},
		{ID: 3, Name: "Austria", Capital: "Vienna"},
		{ID: 4, Name: "Australia", Capital: "Canberra"},
		{ID: 5, Name: "Antarctica"},
		{ID: 6, Name: "Hungary", Capital: "Budapest"},
	}
}

func staticLoader(countries []*core.Country) source.Loader {
	return source.LoaderFunc(func(ctx context.Context) ([]*core.Country, error) {
		return countries, nil
	})
}

// countingMonitor counts searches that actually ran
type countingMonitor struct {
	mu      sync.Mutex
	queries []string
}

func (m *countingMonitor) Start(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
}

func (m *countingMonitor) Hit(_ *core.Country)                      {}
func (m *countingMonitor) Finish(_ string, _ int, _ []*core.Country) {}

func (m *countingMonitor) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

type recordingLoadMonitor struct {
	count int
	err   error
	calls int
}

func (m *recordingLoadMonitor) LoadFinished(count int, _ time.Duration, err error) {
	m.count = count
	m.err = err
	m.calls++
}

type fixture struct {
	repo     storage.CountryRepository
	monitor  *countingMonitor
	searcher *search.Searcher
}

// slowRepository delays every scan, keeping a search in flight.
type slowRepository struct {
	storage.CountryRepository
	delay time.Duration
}

func (r *slowRepository) Scan(ctx context.Context, fn storage.VisitFunc) error {
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.CountryRepository.Scan(ctx, fn)
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithScanDelay(t, 0)
}

func newFixtureWithScanDelay(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	var scanned storage.CountryRepository = repo
	if delay > 0 {
		scanned = &slowRepository{CountryRepository: repo, delay: delay}
	}

	monitor := &countingMonitor{}
	searcher, err := search.NewSearcher(scanned, search.WithMonitor(monitor))
	require.NoError(t, err)

	return &fixture{repo: repo, monitor: monitor, searcher: searcher}
}

func (f *fixture) controller(t *testing.T, loader source.Loader, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithDelay(testDelay)}, opts...)
	c, err := NewController(loader, f.repo, f.searcher, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func suggestionNames(s State) []string {
	names := make([]string, len(s.Suggestions))
	for i, c := range s.Suggestions {
		names[i] = c.Name
	}
	return names
}

func TestNewController(t *testing.T) {
	f := newFixture(t)
	loader := staticLoader(nil)

	t.Run("valid configuration", func(t *testing.T) {
		c, err := NewController(loader, f.repo, f.searcher)
		require.NoError(t, err)
		defer c.Close()
		assert.Equal(t, Initial(), c.State())
	})

	t.Run("with options", func(t *testing.T) {
		c, err := NewController(loader, f.repo, f.searcher,
			WithDelay(0), WithLogger(nil), WithOnChange(func(Event, State) {}), WithLoadMonitor(nil))
		require.NoError(t, err)
		c.Close()
	})

	t.Run("negative delay", func(t *testing.T) {
		_, err := NewController(loader, f.repo, f.searcher, WithDelay(-time.Second))
		assert.Error(t, err)
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := NewController(nil, f.repo, f.searcher)
		assert.Equal(t, ErrLoaderRequired, err)

		_, err = NewController(loader, nil, f.searcher)
		assert.Equal(t, ErrRepositoryRequired, err)

		_, err = NewController(loader, f.repo, nil)
		assert.Equal(t, ErrSearcherRequired, err)
	})
}

func TestController_Load(t *testing.T) {
	f := newFixture(t)
	lm := &recordingLoadMonitor{}

	var seen []State
	c := f.controller(t, staticLoader(catalog()),
		WithLoadMonitor(lm),
		WithOnChange(func(_ Event, s State) { seen = append(seen, s) }))

	require.NoError(t, c.Load(context.Background()))

	state := c.State()
	assert.True(t, state.Loaded)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.True(t, seen[1].Loaded)

	count, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(catalog()), count)

	assert.Equal(t, 1, lm.calls)
	assert.Equal(t, len(catalog()), lm.count)
	assert.NoError(t, lm.err)
}

func TestController_LoadOnlyOnce(t *testing.T) {
	f := newFixture(t)
	var calls atomic.Int32
	loader := source.LoaderFunc(func(ctx context.Context) ([]*core.Country, error) {
		calls.Add(1)
		return nil, source.ErrDataLoadFailure
	})
	c := f.controller(t, loader)

	require.Error(t, c.Load(context.Background()))
	assert.ErrorIs(t, c.Load(context.Background()), ErrAlreadyLoaded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestController_LoadFailure(t *testing.T) {
	f := newFixture(t)
	lm := &recordingLoadMonitor{}
	loader := source.LoaderFunc(func(ctx context.Context) ([]*core.Country, error) {
		return nil, errors.Join(source.ErrDataLoadFailure, errors.New("status 500"))
	})
	c := f.controller(t, loader, WithLoadMonitor(lm))

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, source.ErrDataLoadFailure)

	state := c.State()
	assert.Equal(t, LoadErrorMessage, state.Err)
	assert.False(t, state.Loading)
	assert.False(t, state.Loaded)
	assert.ErrorIs(t, lm.err, source.ErrDataLoadFailure)

	// The session stays usable with an empty catalog
	c.Type("fra")
	require.Eventually(t, func() bool {
		return len(f.monitor.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.State().Suggestions)
}

func TestController_LoadInvalidCatalog(t *testing.T) {
	f := newFixture(t)
	dup := []*core.Country{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}
	c := f.controller(t, staticLoader(dup))

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, source.ErrDataLoadFailure)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.Equal(t, LoadErrorMessage, c.State().Err)
}

func TestController_TypeDebounces(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))
	require.NoError(t, c.Load(context.Background()))

	for _, q := range []string{"a", "au", "aus", "aust"} {
		c.Type(q)
	}

	// The query tracks input immediately
	assert.Equal(t, "aust", c.State().Query)

	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"Austria", "Australia"}, suggestionNames(c.State()))

	time.Sleep(3 * testDelay)
	assert.Equal(t, []string{"aust"}, f.monitor.snapshot())
}

func TestController_TypeEmptyClears(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))
	require.NoError(t, c.Load(context.Background()))

	c.Type("bu")
	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	c.Type("")
	assert.Empty(t, c.State().Suggestions)

	time.Sleep(3 * testDelay)
	assert.Empty(t, c.State().Suggestions)
	assert.Equal(t, "", c.State().Query)
}

func TestController_Select(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))
	require.NoError(t, c.Load(context.Background()))

	c.Type("fr")
	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	selected, err := c.SelectIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "France", selected.Name)

	state := c.State()
	assert.Equal(t, "France", state.Query)
	assert.Empty(t, state.Suggestions)
}

func TestController_SelectCancelsPendingSearch(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))
	require.NoError(t, c.Load(context.Background()))

	c.Type("ger")
	assert.True(t, c.Pending())
	c.Select(catalog()[1])
	assert.False(t, c.Pending())

	time.Sleep(3 * testDelay)
	assert.Empty(t, f.monitor.snapshot())
	assert.Equal(t, "Germany", c.State().Query)
	assert.Empty(t, c.State().Suggestions)
}

func TestController_SelectDiscardsRunningSearch(t *testing.T) {
	f := newFixtureWithScanDelay(t, 50*time.Millisecond)
	c := f.controller(t, staticLoader(catalog()), WithDelay(time.Millisecond))
	require.NoError(t, c.Load(context.Background()))

	c.Type("France")
	require.Eventually(t, func() bool {
		return len(f.monitor.snapshot()) == 1
	}, time.Second, time.Millisecond)

	c.Select(catalog()[0])
	assert.Equal(t, "France", c.State().Query)

	require.Eventually(t, func() bool {
		return !c.Pending()
	}, time.Second, 5*time.Millisecond)

	state := c.State()
	assert.Equal(t, "France", state.Query)
	assert.Empty(t, state.Suggestions)
}

func TestController_PendingCoversRunningSearch(t *testing.T) {
	f := newFixtureWithScanDelay(t, 50*time.Millisecond)
	c := f.controller(t, staticLoader(catalog()), WithDelay(time.Millisecond))
	require.NoError(t, c.Load(context.Background()))

	c.Type("ger")
	for c.Pending() {
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, []string{"Germany"}, suggestionNames(c.State()))
}

func TestController_CloseFinishesRunningSearch(t *testing.T) {
	f := newFixtureWithScanDelay(t, 50*time.Millisecond)

	var mu sync.Mutex
	var rendered []string
	c := f.controller(t, staticLoader(catalog()), WithDelay(time.Millisecond),
		WithOnChange(func(ev Event, s State) {
			if _, ok := ev.(SuggestionsComputed); ok {
				mu.Lock()
				rendered = append(rendered, suggestionNames(s)...)
				mu.Unlock()
			}
		}))
	require.NoError(t, c.Load(context.Background()))

	c.Type("ger")
	require.Eventually(t, func() bool {
		return len(f.monitor.snapshot()) == 1
	}, time.Second, time.Millisecond)

	c.Close()

	assert.False(t, c.Pending())
	assert.Equal(t, []string{"Germany"}, suggestionNames(c.State()))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Germany"}, rendered)
}

func TestController_SelectIndexOutOfRange(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))

	_, err := c.SelectIndex(0)
	assert.ErrorIs(t, err, ErrNoSuchSuggestion)

	_, err = c.SelectIndex(-1)
	assert.ErrorIs(t, err, ErrNoSuchSuggestion)
}

func TestController_SelectNil(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))

	c.Select(nil)
	assert.Equal(t, Initial(), c.State())
}

func TestController_Close(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, staticLoader(catalog()))
	require.NoError(t, c.Load(context.Background()))

	c.Type("fra")
	c.Close()

	time.Sleep(3 * testDelay)
	assert.Empty(t, f.monitor.snapshot())
	assert.False(t, c.Pending())

	// Everything after Close is inert
	c.Type("ger")
	assert.Equal(t, "fra", c.State().Query)
	assert.ErrorIs(t, c.Load(context.Background()), ErrSessionClosed)
	_, err := c.SelectIndex(0)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Close is idempotent
	c.Close()
}

func TestController_OnChangeSeesEveryState(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var queries []string
	c := f.controller(t, staticLoader(catalog()), WithOnChange(func(_ Event, s State) {
		mu.Lock()
		defer mu.Unlock()
		queries = append(queries, s.Query)
	}))
	require.NoError(t, c.Load(context.Background()))

	c.Type("h")
	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// LoadStarted, LoadSucceeded, QueryChanged, SuggestionsComputed
	assert.Equal(t, []string{"", "", "h", "h"}, queries)
}
