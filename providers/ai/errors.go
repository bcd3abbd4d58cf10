package ai

import "fmt"

// HTTPError reports a vendor response that cannot carry a stream: a non-2xx
// status or a missing body. It is fatal for the request and is surfaced to
// OnError without any retry.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}
