package browse

import (
	"context"
	"log"
	"sync"

	"github.com/sourcegraph/conc"

	"moviefinder/models"
)

//go:generate mockgen -destination=mocks/mock_movie_source.go -package=mocks moviefinder/services/browse MovieSource

// MovieSource is the catalog the controller reads from.
type MovieSource interface {
	Trending(ctx context.Context) ([]models.Movie, error)
	Search(ctx context.Context, query string) ([]models.Movie, error)
	Discover(ctx context.Context) ([]models.Movie, error)
}

// Listener receives a snapshot after every state change. Listeners run on
// the goroutine that caused the change, outside the controller lock, so
// snapshots can arrive out of order; use BrowseState.Version to discard
// older ones.
type Listener func(models.BrowseState)

// Controller owns the browse view state and drives the two fetches behind
// it: the movies list (search or popular) and the trending list.
//
// Every movies request is tagged with a sequence number and cancels the one
// before it. Only the settlement carrying the latest sequence number is
// applied, so a slow response to an old keystroke can never overwrite the
// result of a newer one.
type Controller struct {
	source MovieSource
	policy QueryPolicy
	debug  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu           sync.Mutex
	searchTerm   string
	errorMessage string
	movies       []models.Movie
	trending     []models.Movie
	loading      bool
	version      uint64
	seq          uint64
	trendingSeq  uint64
	cancelMovies context.CancelFunc
	mounted      bool
	closed       bool
	listeners    []Listener
}

// Option configures a Controller.
type Option func(*Controller)

// WithQueryPolicy replaces the default Immediate policy.
func WithQueryPolicy(p QueryPolicy) Option {
	return func(c *Controller) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithInitialSearchTerm seeds the search term so Mount loads it directly
// instead of the popular list.
func WithInitialSearchTerm(term string) Option {
	return func(c *Controller) {
		c.searchTerm = term
	}
}

// WithDebugLogging enables [browse] debug lines such as discarded responses.
func WithDebugLogging(enabled bool) Option {
	return func(c *Controller) {
		c.debug = enabled
	}
}

// New creates a Controller. Nothing is fetched until Mount.
func New(source MovieSource, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source: source,
		policy: Immediate(),
		ctx:    ctx,
		cancel: cancel,
		movies: []models.Movie{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn for state change notifications.
func (c *Controller) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Mount performs the initial page load: the movies list for the current
// search term (the popular list on a fresh controller) and the trending list.
// Only the first call has any effect.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted || c.closed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	term := c.searchTerm
	c.mu.Unlock()

	c.LoadMovies(term)
	c.LoadTrending()
}

// SetSearchTerm records new search input and, if it differs from the
// current value, schedules a movies fetch through the query policy.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	if c.closed || term == c.searchTerm {
		c.mu.Unlock()
		return
	}
	c.searchTerm = term
	c.version++
	snap := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
	c.policy.Schedule(term, c.LoadMovies)
}

// LoadMovies starts a movies fetch for query. A blank query loads the
// popular list. Loading is set and the error cleared before the request is
// issued; any request still in flight is cancelled and its result ignored.
func (c *Controller) LoadMovies(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.cancelMovies != nil {
		c.cancelMovies()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelMovies = cancel
	c.loading = true
	c.errorMessage = ""
	c.version++
	snap := c.snapshotLocked()
	listeners := c.listeners
	c.wg.Go(func() {
		defer cancel()
		movies, err := c.fetchMovies(ctx, query)
		c.settleMovies(seq, query, movies, err)
	})
	c.mu.Unlock()

	notify(listeners, snap)
}

// LoadTrending starts a trending fetch. Failures are logged and leave the
// current trending list untouched.
func (c *Controller) LoadTrending() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.trendingSeq++
	seq := c.trendingSeq
	c.wg.Go(func() {
		movies, err := c.source.Trending(c.ctx)
		c.settleTrending(seq, movies, err)
	})
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.BrowseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every fetch started so far has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding fetches, stops the query policy and waits for
// in-flight goroutines to return. The state is frozen afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.policy.Stop()
	c.wg.Wait()
}

func (c *Controller) fetchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	if q := models.EffectiveQuery(query); q != "" {
		return c.source.Search(ctx, q)
	}
	return c.source.Discover(ctx)
}

func (c *Controller) settleMovies(seq uint64, query string, movies []models.Movie, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		if c.debug {
			log.Printf("[browse] discarding stale movies response seq=%d latest=%d query=%q", seq, latest, query)
		}
		return
	}

	if err != nil {
		log.Printf("[browse] movies fetch failed seq=%d query=%q: %v", seq, query, err)
		c.movies = []models.Movie{}
		c.errorMessage = models.MoviesErrorMessage
	} else {
		if movies == nil {
			movies = []models.Movie{}
		}
		c.movies = movies
	}
	c.loading = false
	c.cancelMovies = nil
	c.version++
	snap := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
}

func (c *Controller) settleTrending(seq uint64, movies []models.Movie, err error) {
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		log.Printf("[browse] trending fetch failed: %v", err)
		return
	}
	if len(movies) > models.MaxTrending {
		movies = movies[:models.MaxTrending]
	}

	c.mu.Lock()
	if c.closed || seq != c.trendingSeq {
		c.mu.Unlock()
		return
	}
	c.trending = append([]models.Movie(nil), movies...)
	c.version++
	snap := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	notify(listeners, snap)
}

func (c *Controller) snapshotLocked() models.BrowseState {
	return models.BrowseState{
		SearchTerm:   c.searchTerm,
		ErrorMessage: c.errorMessage,
		Movies:       append([]models.Movie{}, c.movies...),
		Trending:     append([]models.Movie{}, c.trending...),
		Loading:      c.loading,
		Seq:          c.seq,
		Version:      c.version,
	}
}

func notify(listeners []Listener, snap models.BrowseState) {
	for _, fn := range listeners {
		fn(snap)
	}
}
