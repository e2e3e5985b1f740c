package gw2api

import "fmt"

// FetchError reports a failed request to the remote API: a transport
// failure, an unexpected status, or a body that is not the expected JSON
// shape.
type FetchError struct {
	Category   Category
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s from %s: unexpected status %d", e.Category, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s from %s: %v", e.Category, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
