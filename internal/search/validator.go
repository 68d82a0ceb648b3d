package search

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrTooFewTokens  = errors.New("too few tokens")
	ErrTooManyTokens = errors.New("too many tokens")
)

// ValidationError carries the user-facing message for a rejected query.
// errors.Is matches it against its Kind.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return e.Kind == target
}

// KindName is the short identifier handed to API clients.
func (e *ValidationError) KindName() string {
	switch e.Kind {
	case ErrEmptyQuery:
		return "empty_query"
	case ErrTooFewTokens:
		return "too_few_tokens"
	case ErrTooManyTokens:
		return "too_many_tokens"
	default:
		return "invalid_query"
	}
}

// AcceptedQuery is a query that passed Validate, byte for byte as submitted.
type AcceptedQuery string

func (q AcceptedQuery) String() string {
	return string(q)
}

// Validate checks that query names exactly a first and last name. Tokens are
// separated by single spaces, so "Tom  Brady" has three tokens.
func Validate(query string) (AcceptedQuery, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", &ValidationError{Kind: ErrEmptyQuery, Message: "Error: please enter a name."}
	}

	tokens := strings.Split(trimmed, " ")
	switch {
	case len(tokens) < 2:
		return "", &ValidationError{Kind: ErrTooFewTokens, Message: "Error: please enter both first and last name of player."}
	case len(tokens) > 2:
		return "", &ValidationError{Kind: ErrTooManyTokens, Message: "Error: please enter only first and last name of player."}
	}

	return AcceptedQuery(query), nil
}
