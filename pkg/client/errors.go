package client

import (
	"errors"
	"fmt"

	"github.com/orci-tz/mafunzo/internal/utils"
)

var (
	// ErrUnauthorized means the token is missing or expired; the session has
	// been cleared and the user must log in again.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the user is logged in but may not see the resource.
	ErrForbidden = errors.New("forbidden")
)

// FetchError is any other non-2xx answer to a read.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: HTTP %d: %s", e.Status, e.Body)
}

// SubmitError is a non-2xx answer to a survey submission.
type SubmitError struct {
	Status int
	Body   string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit failed: HTTP %d: %s", e.Status, e.Body)
}

// UserMessage renders err as the notice shown to survey and dashboard users.
func UserMessage(err error, locale string) string {
	var submitErr *SubmitError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return utils.T(locale, "fetch.unauthorized")
	case errors.Is(err, ErrForbidden):
		return utils.T(locale, "fetch.forbidden")
	case errors.As(err, &submitErr):
		return utils.T(locale, "submit.failed")
	default:
		return utils.T(locale, "fetch.failed")
	}
}
