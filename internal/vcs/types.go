// SPDX-License-Identifier: AGPL-3.0-or-later

package vcs

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// ObjectIDHexSize is the length of a full hexadecimal object identifier.
const ObjectIDHexSize = 40

// ObjectID is a SHA-1 object identifier.
type ObjectID [20]byte

// ParseObjectID decodes a full 40-character hexadecimal identifier.
func ParseObjectID(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != ObjectIDHexSize {
		return id, fmt.Errorf("object id %q: want %d hex characters, got %d", s, ObjectIDHexSize, len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("object id %q: %w", s, err)
	}
	return id, nil
}

// IsObjectID reports whether s has the shape of a full object identifier.
// It does not check that the object exists.
func IsObjectID(s string) bool {
	_, err := ParseObjectID(s)
	return err == nil
}

// String returns the 40-character lowercase hexadecimal form.
func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the all-zero identifier.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// Commit is a single commit as produced by a backend walk.
type Commit struct {
	ID          ObjectID
	AuthorName  string
	AuthorEmail string
	AuthorTime  time.Time
	CommitTime  time.Time
	Message     string
}

// SliceIter is a CommitIter over an in-memory slice.
type SliceIter struct {
	commits []*Commit
	pos     int
}

// NewSliceIter returns an iterator over commits, in order.
func NewSliceIter(commits []*Commit) *SliceIter {
	return &SliceIter{commits: commits}
}

func (it *SliceIter) Next() (*Commit, error) {
	if it.pos >= len(it.commits) {
		return nil, io.EOF
	}
	c := it.commits[it.pos]
	it.pos++
	return c, nil
}

func (it *SliceIter) Close() {
	it.pos = len(it.commits)
}
