// Package pagination drives "load more" pagination and genre search for one
// catalog list. A Controller owns the page counter, the active filter and the
// trigger states; rendering is delegated to a domain.Renderer.
//
// Requests are split in two halves so an event loop can fetch off-thread:
// Begin* mutates state and returns a Request, Complete applies the response.
// LoadMore, Search and Refresh run both halves synchronously.
package pagination

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/poster"
)

// Request is one page request issued by the controller
type Request struct {
	Query   domain.PageQuery
	Replace bool // Clear the grid before rendering
	Search  bool // Issued by the search trigger

	generation uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithLabels sets the trigger labels; empty labels keep their defaults
func WithLabels(l Labels) Option {
	return func(c *Controller) { c.labels = l.withDefaults() }
}

// WithMapper sets the item-to-poster conversion
func WithMapper(m poster.Mapper) Option {
	return func(c *Controller) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInitialPage sets the last page already present in the grid
func WithInitialPage(page int) Option {
	return func(c *Controller) {
		if page >= 1 {
			c.page = page
		}
	}
}

// Controller paginates a single catalog list into a renderer
type Controller struct {
	mu sync.Mutex

	list     domain.List
	fetcher  domain.PageFetcher
	renderer domain.Renderer
	mapper   poster.Mapper
	labels   Labels
	logger   *slog.Logger

	page       int
	genres     string
	stale      bool
	generation uint64
	loadMore   Phase
	searching  bool
}

// New creates a controller for list. The grid is assumed to already show
// page 1, as a server-rendered page would.
func New(list domain.List, fetcher domain.PageFetcher, renderer domain.Renderer, opts ...Option) *Controller {
	c := &Controller{
		list:     list,
		fetcher:  fetcher,
		renderer: renderer,
		mapper:   poster.FromItem,
		labels:   DefaultLabels(),
		logger:   slog.Default(),
		page:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the list this controller paginates
func (c *Controller) List() domain.List {
	return c.list
}

// State returns a snapshot of the pagination state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{CurrentPage: c.page, Genres: c.genres, Stale: c.stale}
}

// LoadMoreTrigger returns the current state of the "load more" trigger
func (c *Controller) LoadMoreTrigger() Trigger {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.loadMore {
	case PhaseLoading:
		return Trigger{Phase: PhaseLoading, Label: c.labels.Loading, Disabled: true}
	case PhaseExhausted:
		return Trigger{Phase: PhaseExhausted, Label: c.labels.EndOfList, Disabled: true}
	case PhaseRetry:
		return Trigger{Phase: PhaseRetry, Label: c.labels.Retry}
	default:
		return Trigger{Phase: PhaseIdle, Label: c.labels.LoadMore}
	}
}

// SearchTrigger returns the current state of the search trigger
func (c *Controller) SearchTrigger() Trigger {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searching {
		return Trigger{Phase: PhaseLoading, Label: c.labels.Searching, Disabled: true}
	}
	return Trigger{Phase: PhaseIdle, Label: c.labels.Search, Disabled: !c.list.Filterable()}
}

// Labels returns the labels in use
func (c *Controller) Labels() Labels {
	return c.labels
}

// BeginLoadMore starts a "load more" request. It returns false while a
// request is in flight or the list is exhausted. After a failure the page
// counter is not advanced again, so the same page is retried.
func (c *Controller) BeginLoadMore() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.loadMore {
	case PhaseLoading, PhaseExhausted:
		c.logger.Debug("load more rejected", "list", c.list.Key, "phase", c.loadMore.String())
		return Request{}, false
	}

	replace := false
	switch {
	case c.stale:
		c.page = 1
		replace = true
	case c.loadMore == PhaseRetry:
		// Same page again
	default:
		c.page++
	}
	c.loadMore = PhaseLoading

	c.logger.Debug("load more", "list", c.list.Key, "page", c.page, "genres", c.genres, "replace", replace)
	return c.request(replace, false), true
}

// BeginRefresh starts a request for page 1 that replaces the grid,
// keeping the current filter. It returns false while a request is in flight.
func (c *Controller) BeginRefresh() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loadMore == PhaseLoading {
		c.logger.Debug("refresh rejected", "list", c.list.Key)
		return Request{}, false
	}

	c.page = 1
	c.generation++
	c.loadMore = PhaseLoading

	c.logger.Debug("refresh", "list", c.list.Key, "genres", c.genres)
	return c.request(true, false), true
}

// BeginSearch recomputes the filter from form and starts a request for page 1
// that replaces the grid. It returns false when the list has no filtered
// endpoint or a search is already in flight. A pending "load more" becomes stale.
func (c *Controller) BeginSearch(form filter.Form) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.list.Filterable() {
		c.logger.Debug("search rejected", "list", c.list.Key, "error", domain.ErrFilterUnsupported)
		return Request{}, false
	}
	if c.searching {
		c.logger.Debug("search rejected", "list", c.list.Key, "reason", "in flight")
		return Request{}, false
	}

	c.page = 1
	c.genres = filter.CollectGenres(form)
	c.generation++
	c.searching = true
	c.loadMore = PhaseLoading

	c.logger.Debug("search", "list", c.list.Key, "genres", c.genres)
	return c.request(true, true), true
}

func (c *Controller) request(replace, search bool) Request {
	return Request{
		Query: domain.PageQuery{
			List:   c.list,
			Page:   c.page,
			Genres: c.genres,
		},
		Replace:    replace,
		Search:     search,
		generation: c.generation,
	}
}

// Complete applies the response to req. Responses to requests superseded by
// a later search or refresh are dropped.
func (c *Controller) Complete(req Request, items []domain.CatalogItem, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.generation != c.generation {
		c.logger.Debug("dropping stale response", "list", c.list.Key, "page", req.Query.Page)
		return Result{Outcome: OutcomeStale}
	}

	if req.Search {
		c.searching = false
	}

	if err != nil {
		c.logger.Error("failed to load page",
			"list", c.list.Key,
			"page", req.Query.Page,
			"genres", req.Query.Genres,
			"error", err,
		)
		c.loadMore = PhaseRetry
		if req.Replace {
			c.stale = true
		}
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	if len(items) == 0 {
		c.loadMore = PhaseExhausted
		if req.Replace {
			c.stale = false
			c.renderer.ShowEmptyMessage(c.labels.NoResults)
			c.logger.Info("no results", "list", c.list.Key, "genres", req.Query.Genres)
			return Result{Outcome: OutcomeNoResults}
		}
		c.logger.Info("end of list", "list", c.list.Key, "page", req.Query.Page)
		return Result{Outcome: OutcomeExhausted}
	}

	res := Result{Outcome: OutcomeAppended}
	if req.Replace {
		c.renderer.Clear()
		c.stale = false
		res.Outcome = OutcomeReplaced
	}
	for _, item := range items {
		p, ok := c.mapper(item)
		if !ok {
			res.Skipped++
			continue
		}
		c.renderer.Append(p)
		res.Rendered++
	}
	c.loadMore = PhaseIdle

	c.logger.Debug("page rendered",
		"list", c.list.Key,
		"page", req.Query.Page,
		"rendered", res.Rendered,
		"skipped", res.Skipped,
	)
	return res
}

// Fetch performs the network half of req
func (c *Controller) Fetch(ctx context.Context, req Request) ([]domain.CatalogItem, error) {
	return c.fetcher.FetchPage(ctx, req.Query)
}

// LoadMore fetches and renders the next page
func (c *Controller) LoadMore(ctx context.Context) Result {
	req, ok := c.BeginLoadMore()
	if !ok {
		return Result{Outcome: OutcomeRejected}
	}
	items, err := c.Fetch(ctx, req)
	return c.Complete(req, items, err)
}

// Refresh fetches page 1 and replaces the grid
func (c *Controller) Refresh(ctx context.Context) Result {
	req, ok := c.BeginRefresh()
	if !ok {
		return Result{Outcome: OutcomeRejected}
	}
	items, err := c.Fetch(ctx, req)
	return c.Complete(req, items, err)
}

// Search applies the genres selected in form and replaces the grid with page 1
func (c *Controller) Search(ctx context.Context, form filter.Form) Result {
	req, ok := c.BeginSearch(form)
	if !ok {
		return Result{Outcome: OutcomeRejected}
	}
	items, err := c.Fetch(ctx, req)
	return c.Complete(req, items, err)
}
