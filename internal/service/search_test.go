package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/toonkor/internal/adapter"
	"github.com/mmcdole/toonkor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient answers searches with a per-query function and records calls
type fakeClient struct {
	mu      sync.Mutex
	calls   []string
	respond func(ctx context.Context, query string) domain.SearchResult
}

func (f *fakeClient) Search(ctx context.Context, query string) domain.SearchResult {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.respond == nil {
		return domain.Ok(nil)
	}
	return f.respond(ctx, query)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newController(client domain.SearchClient) *SearchController {
	return NewSearchController(client, time.Second, adapter.NullLogger())
}

func TestInitialState(t *testing.T) {
	c := newController(&fakeClient{})
	assert.Equal(t, domain.PhaseInitial, c.State().Phase)
}

func TestEmptyQueryIsNoop(t *testing.T) {
	states := map[string]func(c *SearchController){
		"initial": func(c *SearchController) {},
		"loading": func(c *SearchController) {
			c.OnQueryChange("solo")
		},
		"success": func(c *SearchController) {
			p, _ := c.OnQueryChange("solo")
			c.Settle(p.Run())
		},
		"failed": func(c *SearchController) {
			p, _ := c.OnQueryChange("solo")
			c.Settle(Settlement{Seq: p.Seq, Query: p.Query, Result: domain.Err(errors.New("boom"))})
		},
	}

	for name, setup := range states {
		for _, query := range []string{"", "   ", "\t\n"} {
			t.Run(fmt.Sprintf("%s/%q", name, query), func(t *testing.T) {
				client := &fakeClient{respond: func(context.Context, string) domain.SearchResult {
					return domain.Ok([]domain.Manhwa{{Title: "Solo Leveling"}})
				}}
				c := newController(client)
				setup(c)
				before := c.State()
				callsBefore := len(client.Calls())

				pending, ok := c.OnQueryChange(query)

				assert.False(t, ok)
				assert.Nil(t, pending)
				assert.Equal(t, before, c.State())
				assert.Len(t, client.Calls(), callsBefore, "no request issued")
			})
		}
	}
}

func TestQueryEntersLoadingSynchronously(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		<-release
		return domain.Ok(nil)
	}}
	c := newController(client)

	pending, ok := c.OnQueryChange("solo")
	require.True(t, ok)

	// Nothing has run yet; the request is only issued
	state := c.State()
	assert.Equal(t, domain.PhaseLoading, state.Phase)
	assert.Equal(t, "solo", state.Query)
	assert.Empty(t, client.Calls())

	done := make(chan Settlement, 1)
	go func() { done <- pending.Run() }()
	close(release)

	assert.True(t, c.Settle(<-done))
	assert.Equal(t, domain.PhaseSuccess, c.State().Phase)
}

func TestEmptyResultsSucceed(t *testing.T) {
	c := newController(&fakeClient{respond: func(context.Context, string) domain.SearchResult {
		return domain.Ok([]domain.Manhwa{})
	}})

	pending, ok := c.OnQueryChange("nothing")
	require.True(t, ok)
	require.True(t, c.Settle(pending.Run()))

	state := c.State()
	assert.Equal(t, domain.PhaseSuccess, state.Phase)
	assert.Empty(t, state.Results)
	assert.True(t, state.NoResults())
}

func TestResultsKeepOrder(t *testing.T) {
	c := newController(&fakeClient{respond: func(context.Context, string) domain.SearchResult {
		return domain.Ok([]domain.Manhwa{{Title: "first"}, {Title: "second"}})
	}})

	pending, _ := c.OnQueryChange("solo")
	c.Settle(pending.Run())

	state := c.State()
	require.Len(t, state.Results, 2)
	assert.Equal(t, "first", state.Results[0].Title)
	assert.Equal(t, "second", state.Results[1].Title)
	assert.Empty(t, state.Message)
}

func TestFailures(t *testing.T) {
	tests := map[string]struct {
		err      error
		contains string
		exact    string
	}{
		"http_404": {
			err:      &domain.HTTPStatusError{StatusCode: 404},
			contains: "404",
		},
		"transport_with_cause": {
			err:   &domain.TransportError{Err: errors.New("dial tcp: connection refused")},
			exact: "dial tcp: connection refused",
		},
		"transport_without_cause": {
			err:   &domain.TransportError{},
			exact: domain.UnknownErrorMessage,
		},
		"parse": {
			err:      &domain.ParseError{Err: errors.New("invalid JSON")},
			contains: "invalid JSON",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newController(&fakeClient{respond: func(context.Context, string) domain.SearchResult {
				return domain.Err(tt.err)
			}})

			pending, _ := c.OnQueryChange("solo")
			require.True(t, c.Settle(pending.Run()))

			state := c.State()
			assert.Equal(t, domain.PhaseFailed, state.Phase)
			assert.Nil(t, state.Results)
			if tt.exact != "" {
				assert.Equal(t, tt.exact, state.Message)
			}
			if tt.contains != "" {
				assert.Contains(t, state.Message, tt.contains)
			}
		})
	}
}

func TestNewQueryClearsError(t *testing.T) {
	c := newController(&fakeClient{respond: func(context.Context, string) domain.SearchResult {
		return domain.Err(&domain.HTTPStatusError{StatusCode: 500})
	}})

	pending, _ := c.OnQueryChange("first")
	c.Settle(pending.Run())
	require.Equal(t, domain.PhaseFailed, c.State().Phase)

	_, ok := c.OnQueryChange("second")
	require.True(t, ok)

	state := c.State()
	assert.Equal(t, domain.PhaseLoading, state.Phase)
	assert.Empty(t, state.Message, "loading carries no error text")
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	c := newController(&fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		return domain.Ok([]domain.Manhwa{{Title: query}})
	}})

	a, _ := c.OnQueryChange("a")
	b, _ := c.OnQueryChange("b")

	// b settles first, then a's late answer arrives
	assert.True(t, c.Settle(b.Run()))
	assert.False(t, c.Settle(a.Run()))

	state := c.State()
	assert.Equal(t, domain.PhaseSuccess, state.Phase)
	assert.Equal(t, "b", state.Query)
	require.Len(t, state.Results, 1)
	assert.Equal(t, "b", state.Results[0].Title)
}

func TestStaleFailureDoesNotOverwrite(t *testing.T) {
	c := newController(&fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		if query == "a" {
			return domain.Err(&domain.HTTPStatusError{StatusCode: 502})
		}
		return domain.Ok(nil)
	}})

	a, _ := c.OnQueryChange("a")
	b, _ := c.OnQueryChange("b")

	assert.False(t, c.Settle(a.Run()), "a was superseded while in flight")
	assert.Equal(t, domain.PhaseLoading, c.State().Phase)

	assert.True(t, c.Settle(b.Run()))
	assert.Equal(t, domain.PhaseSuccess, c.State().Phase)
}

func TestSlowThenFastRace(t *testing.T) {
	delays := map[string]time.Duration{
		"a": 500 * time.Millisecond,
		"b": 50 * time.Millisecond,
	}
	client := &fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		select {
		case <-time.After(delays[query]):
			return domain.Ok([]domain.Manhwa{{Title: query}})
		case <-ctx.Done():
			return domain.Err(&domain.TransportError{Err: ctx.Err()})
		}
	}}
	c := newController(client)

	settled := make(chan Settlement, 2)
	run := func(p *PendingSearch) {
		go func() { settled <- p.Run() }()
	}

	a, _ := c.OnQueryChange("a")
	run(a)
	b, _ := c.OnQueryChange("b")
	run(b)

	// Apply settlements in arrival order, as the UI loop would
	for i := 0; i < 2; i++ {
		select {
		case s := <-settled:
			c.Settle(s)
		case <-time.After(5 * time.Second):
			t.Fatal("search did not settle")
		}
	}

	state := c.State()
	assert.Equal(t, domain.PhaseSuccess, state.Phase)
	assert.Equal(t, "b", state.Query)
	require.Len(t, state.Results, 1)
	assert.Equal(t, "b", state.Results[0].Title)
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	client := &fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		if query == "a" {
			<-ctx.Done()
			close(cancelled)
			return domain.Err(&domain.TransportError{Err: ctx.Err()})
		}
		return domain.Ok(nil)
	}}
	c := newController(client)

	a, _ := c.OnQueryChange("a")
	go a.Run()

	c.OnQueryChange("b")

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request was not cancelled")
	}
}

func TestRequestTimeout(t *testing.T) {
	client := &fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		<-ctx.Done()
		return domain.Err(&domain.TransportError{Err: ctx.Err()})
	}}
	c := NewSearchController(client, 20*time.Millisecond, adapter.NullLogger())

	pending, _ := c.OnQueryChange("slow")
	require.True(t, c.Settle(pending.Run()))

	state := c.State()
	assert.Equal(t, domain.PhaseFailed, state.Phase)
	assert.Equal(t, context.DeadlineExceeded.Error(), state.Message)
}

func TestCloseCancelsInFlight(t *testing.T) {
	client := &fakeClient{respond: func(ctx context.Context, query string) domain.SearchResult {
		<-ctx.Done()
		return domain.Err(&domain.TransportError{Err: ctx.Err()})
	}}
	c := newController(client)

	pending, _ := c.OnQueryChange("solo")
	c.Close()

	s := pending.Run()
	assert.ErrorIs(t, s.Result.Err, context.Canceled)
}

func TestSequenceIncreases(t *testing.T) {
	c := newController(&fakeClient{})

	a, _ := c.OnQueryChange("a")
	c.OnQueryChange("")
	b, _ := c.OnQueryChange("b")

	assert.Equal(t, uint64(1), a.Seq)
	assert.Equal(t, uint64(2), b.Seq, "ignored queries do not consume a sequence number")
}
