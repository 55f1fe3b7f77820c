package pricing

import "fmt"

// FetchError is returned by the Remote Document Fetcher for any non-2xx
// response.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
}

// NotFoundError is returned when a load lookup comes back XML (the remote
// store's way of saying "not found or access denied") or as a 4xx.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("estimate %q not found", e.ID)
}

// SaveError is returned when both the initial save POST and the
// strip-and-retry POST fail.
type SaveError struct {
	FirstStatus  int
	FirstBody    string
	RetryStatus  int
	RetryBody    string
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving estimate failed: initial HTTP %d (%s); retry HTTP %d (%s)",
		e.FirstStatus, truncate(e.FirstBody, 200), e.RetryStatus, truncate(e.RetryBody, 200))
}

// ResponseShapeError is returned when a save response is well-formed JSON
// but is missing the fields the protocol requires (statusCode==201, body,
// savedKey).
type ResponseShapeError struct {
	Reason string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("unexpected save response shape: %s", e.Reason)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
