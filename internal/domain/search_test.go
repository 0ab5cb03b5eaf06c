package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateConstructors(t *testing.T) {
	assert.Equal(t, PhaseInitial, InitialState().Phase)

	loading := LoadingState("solo")
	assert.Equal(t, PhaseLoading, loading.Phase)
	assert.Equal(t, "solo", loading.Query)

	success := SuccessState("solo", nil)
	assert.Equal(t, PhaseSuccess, success.Phase)
	assert.NotNil(t, success.Results)
	assert.True(t, success.NoResults())

	failed := FailedState("solo", "")
	assert.Equal(t, PhaseFailed, failed.Phase)
	assert.Equal(t, UnknownErrorMessage, failed.Message)
}

func TestNoResultsOnlyForCompletedEmptySearch(t *testing.T) {
	assert.False(t, InitialState().NoResults())
	assert.False(t, LoadingState("a").NoResults())
	assert.False(t, FailedState("a", "boom").NoResults())
	assert.False(t, SuccessState("a", []Manhwa{{Title: "x"}}).NoResults())
	assert.True(t, SuccessState("a", []Manhwa{}).NoResults())
}

func TestSearchResultBranches(t *testing.T) {
	ok := Ok(nil)
	assert.True(t, ok.IsOk())
	assert.NotNil(t, ok.Items)

	failed := Err(&HTTPStatusError{StatusCode: 500})
	assert.False(t, failed.IsOk())
	assert.Nil(t, failed.Items)

	assert.False(t, Err(nil).IsOk(), "a nil error still yields the error branch")
}

func TestFailureMessage(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected string
	}{
		"nil":               {err: nil, expected: UnknownErrorMessage},
		"transport":         {err: &TransportError{Err: errors.New("connection refused")}, expected: "connection refused"},
		"transport_empty":   {err: &TransportError{Err: errors.New("")}, expected: UnknownErrorMessage},
		"transport_nil":     {err: &TransportError{}, expected: UnknownErrorMessage},
		"wrapped_transport": {err: fmt.Errorf("outer: %w", &TransportError{Err: errors.New("dns")}), expected: "dns"},
		"status":            {err: &HTTPStatusError{StatusCode: 404}, expected: "Response status: 404"},
		"parse":             {err: &ParseError{Err: errors.New("bad")}, expected: "failed to parse search results: bad"},
		"plain":             {err: errors.New("boom"), expected: "boom"},
		"empty":             {err: errors.New(""), expected: UnknownErrorMessage},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FailureMessage(tt.err))
		})
	}
}
