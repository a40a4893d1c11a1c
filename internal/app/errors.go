package app

import "github.com/pkg/errors"

// InvalidRequestError is returned when run parameters are invalid.
type InvalidRequestError string

// Error implements error interface.
func (e InvalidRequestError) Error() string {
	return string(e)
}

// IsInvalidRequest tells that this error is 'invalid request'.
// Returns always true.
func (InvalidRequestError) IsInvalidRequest() bool {
	return true
}

// IsInvalidRequestError checks if given error is caused by invalid request.
func IsInvalidRequestError(err error) bool {
	type invalidReqErr interface {
		IsInvalidRequest() bool
	}

	err = errors.Cause(err)
	if ire, ok := err.(invalidReqErr); ok {
		return ire.IsInvalidRequest()
	}

	return false
}

// RateLimitedError is returned when the API blocked a request for rate-limit
// or abuse reasons. Partial results may still be available.
type RateLimitedError string

// Error implements error interface.
func (e RateLimitedError) Error() string {
	return string(e)
}

// IsRateLimited tells that this error is 'rate limited'.
// Returns always true.
func (RateLimitedError) IsRateLimited() bool {
	return true
}

// IsRateLimitedError checks if given error was caused by an API rate limit.
func IsRateLimitedError(err error) bool {
	type rateLimitedErr interface {
		IsRateLimited() bool
	}

	err = errors.Cause(err)
	if rle, ok := err.(rateLimitedErr); ok {
		return rle.IsRateLimited()
	}

	return false
}

// NoProjectsError is returned when a repository search matched nothing.
// This is the only condition that aborts a whole run.
type NoProjectsError string

// Error implements error interface.
func (e NoProjectsError) Error() string {
	return string(e)
}

// IsNoProjects tells that this error is 'no projects'.
// Returns always true.
func (NoProjectsError) IsNoProjects() bool {
	return true
}

// IsNoProjectsError checks if given error means the search matched no repositories.
func IsNoProjectsError(err error) bool {
	type noProjectsErr interface {
		IsNoProjects() bool
	}

	err = errors.Cause(err)
	if npe, ok := err.(noProjectsErr); ok {
		return npe.IsNoProjects()
	}

	return false
}
