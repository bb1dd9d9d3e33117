// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vcs defines the collaborators the range log command talks to:
// a Manager that opens repositories by name, and the Repository handle it
// returns. Backends live in the gogit and gitexec subpackages.
package vcs

//go:generate mockgen -destination=mock_vcs/mock_vcs.go -package=mock_vcs github.com/bartekus/gitlog/internal/vcs Manager,Repository,CommitIter

import (
	"context"
	"errors"
)

// ErrRepositoryNotFound is returned by Manager.Open when no repository exists
// under the requested name.
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrInvalidRepositoryName is returned when a repository name cannot be mapped
// to a location (empty, absolute, or escaping the base directory).
var ErrInvalidRepositoryName = errors.New("invalid repository name")

// Manager opens repositories by name.
type Manager interface {
	Open(ctx context.Context, name string) (Repository, error)
}

// Repository is an open repository handle. Callers must Close it.
type Repository interface {
	// AllRefs returns the reference table: full ref name (e.g. "refs/heads/main",
	// "HEAD") to the object it points at. Symbolic refs are resolved.
	AllRefs(ctx context.Context) (map[string]ObjectID, error)

	// LogRange returns the commits reachable from to but not from from,
	// newest commit time first.
	LogRange(ctx context.Context, from, to ObjectID) (CommitIter, error)

	Close() error
}

// CommitIter is a lazy, finite, single-pass sequence of commits.
// Next returns io.EOF once exhausted.
type CommitIter interface {
	Next() (*Commit, error)
	Close()
}
