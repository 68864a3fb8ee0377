package coach

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStore struct {
	mu         sync.Mutex
	heroes     string
	maps       string
	heroesErr  error
	mapsErr    error
	heroesTopK []int
	mapsTopK   []int
	queries    []string
}

func (s *fakeStore) QueryHeroes(_ context.Context, q string, topK int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heroesTopK = append(s.heroesTopK, topK)
	s.queries = append(s.queries, q)
	return s.heroes, s.heroesErr
}

func (s *fakeStore) QueryMaps(_ context.Context, q string, topK int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapsTopK = append(s.mapsTopK, topK)
	s.queries = append(s.queries, q)
	return s.maps, s.mapsErr
}

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
	block    bool
}

func (c *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return c.response, c.err
}

func TestSuggest(t *testing.T) {
	store := &fakeStore{heroes: "Winston leaps.", maps: "Ilios has wells."}
	comp := &fakeCompleter{response: wellFormed}
	c := New(store, comp, Options{}, zap.NewNop())

	res, err := c.Suggest(context.Background(), CompositionRequest{
		MapName:   "Ilios",
		EnemyTeam: []string{"Widowmaker", "Ana"},
	})
	require.NoError(t, err)

	assert.Len(t, res.RecommendedTeam, 5)
	assert.Equal(t, wellFormed, res.RawResponse)
	assert.Equal(t, []int{DefaultTopKHeroes}, store.heroesTopK)
	assert.Equal(t, []int{DefaultTopKMaps}, store.mapsTopK)
	assert.ElementsMatch(t, []string{HeroesQuery([]string{"Widowmaker", "Ana"}, "Ilios"), MapsQuery("Ilios")}, store.queries)

	require.Len(t, comp.prompts, 1)
	assert.Contains(t, comp.prompts[0], "Winston leaps.")
	assert.Contains(t, comp.prompts[0], "Map Info: Ilios has wells.")
	assert.Contains(t, comp.prompts[0], "Enemy Team: Widowmaker, Ana")
}

func TestSuggest_CustomTopK(t *testing.T) {
	store := &fakeStore{}
	c := New(store, &fakeCompleter{}, Options{TopKHeroes: 4, TopKMaps: 2}, nil)

	_, err := c.Suggest(context.Background(), CompositionRequest{MapName: "Busan"})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, store.heroesTopK)
	assert.Equal(t, []int{2}, store.mapsTopK)
}

func TestSuggest_IndexesNotLoadedStillCompletes(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &fakeStore{heroes: HeroesNotLoaded, maps: MapsNotLoaded}
	comp := &fakeCompleter{response: "Sorry, I have no data."}
	c := New(store, comp, Options{}, zap.New(core))

	res, err := c.Suggest(context.Background(), CompositionRequest{MapName: "Numbani"})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.Len(t, comp.prompts, 1)
	assert.Contains(t, comp.prompts[0], HeroesNotLoaded)
	assert.Contains(t, comp.prompts[0], MapsNotLoaded)
	assert.True(t, res.RecommendedTeam[0].IsSentinel())
	assert.Equal(t, "Sorry, I have no data.", res.RawResponse)
	assert.Equal(t, 1, logs.FilterMessageSnippet("not loaded").Len())
}

func TestSuggest_MissingMap(t *testing.T) {
	comp := &fakeCompleter{}
	c := New(&fakeStore{}, comp, Options{}, nil)

	_, err := c.Suggest(context.Background(), CompositionRequest{MapName: "  "})
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, comp.prompts)
}

func TestSuggest_StoreFailure(t *testing.T) {
	comp := &fakeCompleter{}
	c := New(&fakeStore{mapsErr: errors.New("embedding backend unreachable")}, comp, Options{}, nil)

	_, err := c.Suggest(context.Background(), CompositionRequest{MapName: "Ilios"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.ErrorIs(t, err, ErrKnowledgeUnavailable)
	assert.Contains(t, err.Error(), "embedding backend unreachable")
	assert.Empty(t, comp.prompts)
}

func TestSuggest_CompletionFailure(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(&fakeStore{}, &fakeCompleter{err: cause}, Options{}, nil)

	_, err := c.Suggest(context.Background(), CompositionRequest{MapName: "Ilios"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrKnowledgeUnavailable)
}

func TestSuggest_CompletionDeadline(t *testing.T) {
	c := New(&fakeStore{}, &fakeCompleter{block: true}, Options{CompletionTimeout: 20 * time.Millisecond}, nil)

	_, err := c.Suggest(context.Background(), CompositionRequest{MapName: "Ilios"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCounter(t *testing.T) {
	store := &fakeStore{heroes: "Winston counters Widowmaker."}
	comp := &fakeCompleter{response: "Hard counters: Winston, D.Va, Genji"}
	c := New(store, comp, Options{}, nil)

	res, err := c.Counter(context.Background(), HeroCounterRequest{HeroName: " Widowmaker "})
	require.NoError(t, err)

	assert.Equal(t, &HeroCounterResult{Hero: "Widowmaker", Counters: "Hard counters: Winston, D.Va, Genji"}, res)
	assert.Equal(t, []int{DefaultCounterTopK}, store.heroesTopK)
	assert.Equal(t, []string{CounterQuery("Widowmaker")}, store.queries)
	require.Len(t, comp.prompts, 1)
	assert.Contains(t, comp.prompts[0], "Winston counters Widowmaker.")
	assert.Contains(t, comp.prompts[0], CounterQuery("Widowmaker"))
}

func TestCounter_Errors(t *testing.T) {
	c := New(&fakeStore{}, &fakeCompleter{}, Options{}, nil)
	_, err := c.Counter(context.Background(), HeroCounterRequest{})
	require.ErrorIs(t, err, ErrInvalidRequest)

	c = New(&fakeStore{heroesErr: errors.New("boom")}, &fakeCompleter{}, Options{}, nil)
	_, err = c.Counter(context.Background(), HeroCounterRequest{HeroName: "Tracer"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	require.ErrorIs(t, err, ErrKnowledgeUnavailable)

	c = New(&fakeStore{}, &fakeCompleter{err: errors.New("401")}, Options{}, nil)
	_, err = c.Counter(context.Background(), HeroCounterRequest{HeroName: "Tracer"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}
