package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/toonkor/internal/domain"
)

// DefaultSearchTimeout bounds a request when no timeout is configured
const DefaultSearchTimeout = 30 * time.Second

// SearchController drives the browse screen's search state.
// Only the response to the most recently issued query may update state:
// each request is tagged with a sequence number, superseded requests are
// cancelled, and settlements carrying an older tag are discarded.
type SearchController struct {
	client  domain.SearchClient
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	state  domain.SearchState
	seq    uint64             // sequence number of the latest issued request
	cancel context.CancelFunc // cancels the latest issued request
}

// PendingSearch is an issued request waiting to be run
type PendingSearch struct {
	Seq   uint64
	Query string

	ctx    context.Context
	client domain.SearchClient
}

// Settlement is the outcome of a PendingSearch
type Settlement struct {
	Seq    uint64
	Query  string
	Result domain.SearchResult
}

// NewSearchController creates a controller in the Initial state
func NewSearchController(client domain.SearchClient, timeout time.Duration, logger *slog.Logger) *SearchController {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	return &SearchController{
		client:  client,
		timeout: timeout,
		logger:  logger,
		state:   domain.InitialState(),
	}
}

// State returns the current search state
func (c *SearchController) State() domain.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnQueryChange handles a debounced query from the search input.
// Empty or whitespace-only queries are ignored and return false. Otherwise
// the state moves to Loading before returning, so any previous error is
// cleared immediately, and the returned request must be run to settle it.
func (c *SearchController) OnQueryChange(query string) (*PendingSearch, bool) {
	if strings.TrimSpace(query) == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	c.seq++
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.state = domain.LoadingState(query)

	c.logger.Debug("search issued", "seq", c.seq, "query", query)

	return &PendingSearch{
		Seq:    c.seq,
		Query:  query,
		ctx:    ctx,
		client: c.client,
	}, true
}

// Run performs the request. It blocks and must not run on the UI goroutine.
func (p *PendingSearch) Run() Settlement {
	return Settlement{
		Seq:    p.Seq,
		Query:  p.Query,
		Result: p.client.Search(p.ctx, p.Query),
	}
}

// Settle applies a finished request to the state.
// It returns false, leaving state untouched, if a newer query was issued.
func (c *SearchController) Settle(s Settlement) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.Seq != c.seq {
		c.logger.Debug("discarding stale search result", "seq", s.Seq, "latest", c.seq, "query", s.Query)
		return false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if s.Result.IsOk() {
		c.state = domain.SuccessState(s.Query, s.Result.Items)
		c.logger.Debug("search succeeded", "seq", s.Seq, "query", s.Query, "results", len(s.Result.Items))
		return true
	}

	c.state = domain.FailedState(s.Query, domain.FailureMessage(s.Result.Err))
	c.logger.Warn("search failed", "seq", s.Seq, "query", s.Query, "error", s.Result.Err)
	return true
}

// Close cancels any in-flight request
func (c *SearchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
