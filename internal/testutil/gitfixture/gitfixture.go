// Package gitfixture builds small bare repositories for tests by writing
// commit objects directly, so history shape and timestamps are exact.
package gitfixture

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the author and commit time of the first fixture commit.
// Each later commit is one minute newer.
var Epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// Repo is a bare fixture repository.
type Repo struct {
	Dir  string
	Repo *git.Repository

	t     testing.TB
	clock time.Time
	tree  plumbing.Hash
}

// New initializes a bare repository at <baseDir>/<name>.git.
func New(t testing.TB, baseDir, name string) *Repo {
	t.Helper()
	dir := filepath.Join(baseDir, name+".git")
	repo, err := git.PlainInit(dir, true)
	require.NoError(t, err)

	r := &Repo{Dir: dir, Repo: repo, t: t, clock: Epoch}

	obj := repo.Storer.NewEncodedObject()
	require.NoError(t, (&object.Tree{}).Encode(obj))
	r.tree, err = repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)

	return r
}

// Signature is the author/committer used for every fixture commit.
func Signature(when time.Time) object.Signature {
	return object.Signature{Name: "Test User", Email: "test@example.com", When: when}
}

// Commit writes a commit with the given parents and returns its hash.
func (r *Repo) Commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := Signature(r.clock)
	r.clock = r.clock.Add(time.Minute)

	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		TreeHash:     r.tree,
		ParentHashes: parents,
	}
	obj := r.Repo.Storer.NewEncodedObject()
	require.NoError(r.t, c.Encode(obj))
	h, err := r.Repo.Storer.SetEncodedObject(obj)
	require.NoError(r.t, err)
	return h
}

// Branch points refs/heads/<name> at h.
func (r *Repo) Branch(name string, h plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), h)
	require.NoError(r.t, r.Repo.Storer.SetReference(ref))
}

// LightweightTag points refs/tags/<name> directly at h.
func (r *Repo) LightweightTag(name string, h plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, h, nil)
	require.NoError(r.t, err)
}

// AnnotatedTag creates a tag object for h and points refs/tags/<name> at it.
func (r *Repo) AnnotatedTag(name string, h plumbing.Hash) {
	r.t.Helper()
	sig := Signature(r.clock)
	_, err := r.Repo.CreateTag(name, h, &git.CreateTagOptions{Tagger: &sig, Message: "release " + name})
	require.NoError(r.t, err)
}

// Linear writes n commits in a chain on master and returns them oldest first.
// Messages are "C1", "C2", ...
func (r *Repo) Linear(n int) []plumbing.Hash {
	r.t.Helper()
	hashes := make([]plumbing.Hash, 0, n)
	var parents []plumbing.Hash
	for i := 1; i <= n; i++ {
		h := r.Commit(fmt.Sprintf("C%d\n\nbody of commit %d\n", i, i), parents...)
		hashes = append(hashes, h)
		parents = []plumbing.Hash{h}
	}
	if n > 0 {
		r.Branch("master", hashes[n-1])
	}
	return hashes
}
