// SPDX-License-Identifier: AGPL-3.0-or-later

package rangelog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument marks a UsageError for an absent repository or endpoint.
	ErrMissingArgument = errors.New("missing argument")

	// ErrUnsupportedFormat marks a UsageError for a format outside Formats().
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// UsageError reports a request the command cannot act on.
// Msg is the user-facing line.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	return e.Msg
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ResolutionError reports an endpoint that is neither a full object
// identifier nor a known reference.
type ResolutionError struct {
	Endpoint string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s does not point to a valid git reference.", e.Endpoint)
}

// BackendError reports a failure opening the repository, reading its
// references, walking history, or writing output. Err carries the detail.
type BackendError struct {
	Op         string
	Repository string
	Err        error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repository, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
