package metadata

import (
	"errors"
	"fmt"
)

// HTTPStatusError is returned when TMDB answers with a non-2xx status.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "tmdb request failed"
	}
	return fmt.Sprintf("tmdb request failed: %s status=%d", e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err is an HTTPStatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
