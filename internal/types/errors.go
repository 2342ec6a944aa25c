package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrStoreCorrupt  = errors.New("dedup store corrupt")
	ErrRunInProgress = errors.New("another run holds the lock")
	ErrEmptyKeywords = errors.New("keyword table is empty")
	ErrNoProviders   = errors.New("no search providers configured")
)

// ConfigError marks configuration problems. It is the only error class
// that aborts a run before any work is done.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err as a fatal configuration error.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// FetchError wraps errors that occur while fetching a page. Per-article,
// never fatal to the run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur while extracting article content.
// Per-article, never fatal to the run.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SearchError wraps a failure of a single search provider. The run skips
// that provider's results and continues.
type SearchError struct {
	Provider string
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search error (%s): %v", e.Provider, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// StorageError wraps errors from the article archive backends.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotifyError wraps a webhook delivery failure. Logged, never fatal.
type NotifyError struct {
	StatusCode int
	Err        error
}

func (e *NotifyError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("notify error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notify error: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }
