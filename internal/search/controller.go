package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/pexels-search/internal/eventbus"
	"github.com/handiism/pexels-search/internal/model"
)

// Searcher is the photo search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Photo, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) ([]model.Photo, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, query string) ([]model.Photo, error) {
	return f(ctx, query)
}

// Controller owns the search state and publishes a State snapshot after
// every change.
//
// All mutations are serialized by the controller. The search itself runs
// on its own goroutine; when several queries overlap only the most
// recently submitted one may update the results (last-query-wins), and
// the superseded requests have their contexts cancelled.
//
// Example usage:
//
//	ctrl := search.NewController(pexelsClient, logger)
//	defer ctrl.Close()
//
//	unsubscribe := ctrl.Subscribe(func(s search.State) {
//	    fmt.Printf("%q: %d results\n", s.Query, len(s.Results))
//	})
//	defer unsubscribe()
//
//	ctrl.SubmitQuery("cats")
type Controller struct {
	searcher Searcher
	logger   *slog.Logger
	bus      *eventbus.Bus[State]

	mu       sync.Mutex
	state    State
	cancelFn context.CancelFunc
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates a Controller that searches through searcher.
func NewController(searcher Searcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		searcher: searcher,
		logger:   logger,
		bus:      eventbus.New[State](logger),
		state:    State{UI: make(map[string]PhotoUIState)},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SubmitQuery records text as the current query and starts a search.
//
// Blank or whitespace-only text is a no-op: nothing is requested or
// published and issued is false. Otherwise seq identifies the request.
// SubmitQuery does not wait for the search to complete.
func (c *Controller) SubmitQuery(text string) (seq uint64, issued bool) {
	query := strings.TrimSpace(text)
	if query == "" {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, false
	}

	if c.cancelFn != nil {
		c.cancelFn()
	}
	reqCtx, cancel := context.WithCancel(c.ctx)
	c.cancelFn = cancel

	c.state.Seq++
	seq = c.state.Seq
	c.state.Query = query
	c.state.Loading = true
	c.publishLocked()

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	requestID := id.String()
	c.logger.Info("search submitted",
		slog.String("request_id", requestID),
		slog.Uint64("seq", seq),
		slog.String("query", query),
	)

	c.wg.Add(1)
	go c.run(reqCtx, cancel, seq, query, requestID)

	return seq, true
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, seq uint64, query, requestID string) {
	defer c.wg.Done()
	defer cancel()

	start := time.Now()
	photos, err := c.searcher.Search(ctx, query)
	c.complete(seq, requestID, photos, err, time.Since(start))
}

// complete applies a search response if it belongs to the latest request.
func (c *Controller) complete(seq uint64, requestID string, photos []model.Photo, err error, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.Uint64("seq", seq),
		slog.Duration("took", took),
	)

	if c.closed {
		logger.Debug("search completed after close, ignoring")
		return
	}
	if seq != c.state.Seq {
		logger.Debug("search superseded, ignoring", slog.Uint64("latest", c.state.Seq))
		return
	}

	c.cancelFn = nil
	c.state.Loading = false

	if err != nil {
		c.state.LastError = fmt.Errorf("%w: %q: %w", ErrQueryFailed, c.state.Query, err)
		logger.Error("search failed", slog.String("query", c.state.Query), slog.Any("error", err))
		c.publishLocked()
		return
	}

	c.state.LastError = nil
	c.state.Results = append([]model.Photo(nil), photos...)
	c.pruneUILocked(photos)
	for _, p := range photos {
		if _, ok := c.state.UI[p.ID]; !ok {
			c.state.UI[p.ID] = PhotoUIState{Liked: p.Liked}
		}
	}
	if c.state.ExpandedID != "" && !containsID(photos, c.state.ExpandedID) {
		c.state.ExpandedID = ""
	}

	logger.Info("search completed", slog.String("query", c.state.Query), slog.Int("results", len(photos)))
	c.publishLocked()
}

// pruneUILocked drops untouched entries for photos not in photos.
func (c *Controller) pruneUILocked(photos []model.Photo) {
	for id, ui := range c.state.UI {
		if !ui.Toggled && !containsID(photos, id) {
			delete(c.state.UI, id)
		}
	}
}

// ToggleLiked flips the liked flag of a photo the controller has seen in
// a result set. It reports whether the id was known. The API is not
// called and nothing is persisted.
func (c *Controller) ToggleLiked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ui, ok := c.state.UI[id]
	if !ok || c.closed {
		return false
	}
	ui.Liked = !ui.Liked
	ui.Toggled = true
	c.state.UI[id] = ui
	c.publishLocked()
	return true
}

// ToggleExpanded expands the photo, collapsing any other expanded photo,
// or collapses it if it is already expanded. At most one photo is
// expanded at a time. It reports whether the id is in the current results.
func (c *Controller) ToggleExpanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !containsID(c.state.Results, id) {
		return false
	}
	if c.state.ExpandedID == id {
		c.state.ExpandedID = ""
	} else {
		c.state.ExpandedID = id
	}
	c.publishLocked()
	return true
}

// GroupedView returns the current results grouped by photographer.
func (c *Controller) GroupedView() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Aggregate(c.state.Results)
}

// Groups returns GroupedView ordered by first appearance.
func (c *Controller) Groups() []model.PhotographerGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.GroupByPhotographer(c.state.Results)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive state snapshots and returns a func
// that removes it. fn runs on the notification goroutine, never while the
// controller is locked, so it may call back into the controller.
func (c *Controller) Subscribe(fn func(State)) func() {
	return c.bus.Subscribe(fn)
}

// Wait blocks until every search goroutine has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close tears the controller down. In-flight requests are cancelled and
// their responses ignored; no further snapshots are published. Close is
// idempotent and may be called from a subscriber.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.bus.Close()
}

func (c *Controller) publishLocked() {
	c.state.Version++
	c.bus.Publish(c.state.clone())
}

func containsID(photos []model.Photo, id string) bool {
	for _, p := range photos {
		if p.ID == id {
			return true
		}
	}
	return false
}
