package githubapi

import (
	"github.com/go-faster/errors"
	"github.com/google/go-github/v79/github"
)

// APIError is returned by every Client method. Error() yields the message
// GitHub put in the response body when there is one, otherwise the
// transport error text, so it can be shown to a user as-is.
type APIError struct {
	// Op names the client operation, e.g. "get pull request".
	Op string

	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int

	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrapError converts a go-github error into an *APIError.
func wrapError(op string, resp *github.Response, err error) error {
	apiErr := &APIError{Op: op, Message: err.Error(), Err: err}
	if resp != nil && resp.Response != nil {
		apiErr.StatusCode = resp.StatusCode
	}

	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
	)
	switch {
	case errors.As(err, &errResp):
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
		if errResp.Response != nil {
			apiErr.StatusCode = errResp.Response.StatusCode
		}
	case errors.As(err, &rateErr):
		if rateErr.Message != "" {
			apiErr.Message = rateErr.Message
		}
	case errors.As(err, &abuseErr):
		if abuseErr.Message != "" {
			apiErr.Message = abuseErr.Message
		}
	}
	return apiErr
}
