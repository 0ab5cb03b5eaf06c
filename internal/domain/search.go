package domain

import "context"

// SearchClient queries the remote browse search endpoint.
type SearchClient interface {
	Search(ctx context.Context, query string) SearchResult
}

// SearchResult is the outcome of a single search request.
// Exactly one of Items (on success) or Err is meaningful.
type SearchResult struct {
	Items []Manhwa
	Err   error
}

// Ok wraps a successful response
func Ok(items []Manhwa) SearchResult {
	if items == nil {
		items = []Manhwa{}
	}
	return SearchResult{Items: items}
}

// Err wraps a failed response
func Err(err error) SearchResult {
	if err == nil {
		err = &TransportError{}
	}
	return SearchResult{Err: err}
}

// IsOk returns true if the request succeeded
func (r SearchResult) IsOk() bool {
	return r.Err == nil
}

// SearchPhase identifies which of the four browse states is active
type SearchPhase int

const (
	PhaseInitial SearchPhase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailed
)

func (p SearchPhase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchState is the browse screen's search state.
// Build it with the constructors below so only the active phase's fields are set.
type SearchState struct {
	Phase   SearchPhase
	Query   string   // query that produced this state (empty for Initial)
	Results []Manhwa // Success only; may be empty
	Message string   // Failed only
}

// InitialState is the state before any search has run
func InitialState() SearchState {
	return SearchState{Phase: PhaseInitial}
}

// LoadingState is the state while a request for query is in flight
func LoadingState(query string) SearchState {
	return SearchState{Phase: PhaseLoading, Query: query}
}

// SuccessState is the state after a request for query succeeded
func SuccessState(query string, results []Manhwa) SearchState {
	if results == nil {
		results = []Manhwa{}
	}
	return SearchState{Phase: PhaseSuccess, Query: query, Results: results}
}

// FailedState is the state after a request for query failed
func FailedState(query, message string) SearchState {
	if message == "" {
		message = UnknownErrorMessage
	}
	return SearchState{Phase: PhaseFailed, Query: query, Message: message}
}

// NoResults returns true when a completed search found nothing
func (s SearchState) NoResults() bool {
	return s.Phase == PhaseSuccess && len(s.Results) == 0
}
