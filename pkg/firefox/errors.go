package firefox

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChannel matches any *InvalidChannelError
	ErrInvalidChannel = errors.New("firefox: invalid channel")

	// ErrUpstream matches any *UpstreamError
	ErrUpstream = errors.New("firefox: upstream failure")
)

// InvalidChannelError reports a target that names no known channel.
type InvalidChannelError struct {
	Target string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("Invalid target '%s'. Try 'stable', 'beta', 'nightly', 'dev', or 'esr'.", e.Target)
}

func (e *InvalidChannelError) Is(target error) bool {
	return target == ErrInvalidChannel
}

// UpstreamError reports a failed fetch of the version document, or a body that
// did not decode into the expected shape.
type UpstreamError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
