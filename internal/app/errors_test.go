package app

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsInvalidRequestError(t *testing.T) {
	stdErr := errors.New("simple error")
	if IsInvalidRequestError(stdErr) {
		t.Error("simple error reported as invalid request")
	}

	irErr := InvalidRequestError("invalid request")
	if !IsInvalidRequestError(irErr) {
		t.Error("invalid request error not reported as invalid request")
	}

	wrapperErr := errors.Wrap(irErr, "wrapping message")
	if !IsInvalidRequestError(wrapperErr) {
		t.Error("wrapped invalid request error not reported as invalid request")
	}
}

func TestIsRateLimitedError(t *testing.T) {
	stdErr := errors.New("simple error")
	if IsRateLimitedError(stdErr) {
		t.Error("simple error reported as rate limited")
	}

	rlErr := RateLimitedError("rate limited")
	if !IsRateLimitedError(rlErr) {
		t.Error("rate limited error not reported as rate limited")
	}

	wrapperErr := errors.Wrap(rlErr, "wrapping message")
	if !IsRateLimitedError(wrapperErr) {
		t.Error("wrapped rate limited error not reported as rate limited")
	}
}

func TestIsNoProjectsError(t *testing.T) {
	stdErr := errors.New("simple error")
	if IsNoProjectsError(stdErr) {
		t.Error("simple error reported as no projects")
	}

	npErr := NoProjectsError("no projects")
	if !IsNoProjectsError(npErr) {
		t.Error("no projects error not reported as no projects")
	}

	wrapperErr := errors.Wrap(npErr, "wrapping message")
	if !IsNoProjectsError(wrapperErr) {
		t.Error("wrapped no projects error not reported as no projects")
	}
}
