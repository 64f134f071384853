package services

import (
	"errors"
	"fmt"
)

// Taxonomy errors terminate the current request only; none of them is fatal
// to the process.
var (
	// ErrNoResults means card tokens were present, nothing matched, and no
	// deck reference accompanied them.
	ErrNoResults = errors.New("search returned no results")

	// ErrTooManyMatches means the resolved match count exceeded
	// MaxCardMatches. The whole request is rejected before rendering; no
	// partial results are produced.
	ErrTooManyMatches = errors.New("search returned too many results")
)

// FetchError wraps a failure to pull data from ArkhamDB: unreachable host,
// non-2xx status, or an undecodable body. A catalog reload that fails with
// one of these leaves the previous snapshot fully intact.
type FetchError struct {
	URL    string
	Status int // 0 when the request never got a response
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
