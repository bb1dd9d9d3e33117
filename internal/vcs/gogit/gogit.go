// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gogit implements the vcs collaborators on top of go-git.
package gogit

import (
	"context"
	"fmt"
	"io"

	"github.com/bobg/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/bartekus/gitlog/internal/vcs"
)

// PathResolver maps a repository name to a directory.
type PathResolver interface {
	Resolve(name string) (string, error)
}

// Manager opens repositories found through its PathResolver.
type Manager struct {
	paths PathResolver
}

// NewManager returns a Manager that locates repositories with paths.
func NewManager(paths PathResolver) *Manager {
	return &Manager{paths: paths}
}

// Open opens the named repository.
func (m *Manager) Open(ctx context.Context, name string) (vcs.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := m.paths.Resolve(name)
	if err != nil {
		return nil, err
	}
	repo, err := Open(dir)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Open opens the repository at dir, which may be bare or have a working tree.
func Open(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: false})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, errors.Wrap(vcs.ErrRepositoryNotFound, dir)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dir)
	}
	return &Repository{repo: repo, dir: dir}, nil
}

// Repository is an open go-git repository.
type Repository struct {
	repo *git.Repository
	dir  string
}

// AllRefs returns every reference, with symbolic refs resolved to their
// target. Symbolic refs whose target does not exist (an unborn HEAD) are
// left out.
func (r *Repository) AllRefs(ctx context.Context) (map[string]vcs.ObjectID, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, errors.Wrapf(err, "listing references in %s", r.dir)
	}
	defer iter.Close()

	refs := make(map[string]vcs.ObjectID)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() == plumbing.SymbolicReference {
			resolved, err := storer.ResolveReference(r.repo.Storer, ref.Name())
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "resolving %s", ref.Name())
			}
			ref = plumbing.NewHashReference(ref.Name(), resolved.Hash())
		}
		refs[ref.Name().String()] = vcs.ObjectID(ref.Hash())
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing references in %s", r.dir)
	}
	return refs, nil
}

// LogRange walks the commits reachable from to and not from from, newest
// commit time first.
func (r *Repository) LogRange(ctx context.Context, from, to vcs.ObjectID) (vcs.CommitIter, error) {
	base, err := r.peelToCommit(plumbing.Hash(from))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", from)
	}
	head, err := r.peelToCommit(plumbing.Hash(to))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", to)
	}

	excluded, err := ancestors(ctx, base)
	if err != nil {
		return nil, errors.Wrapf(err, "walking history of %s", from)
	}

	return &commitIter{ctx: ctx, iter: object.NewCommitIterCTime(head, excluded, nil)}, nil
}

// Close releases the storage's open packfiles.
func (r *Repository) Close() error {
	if c, ok := r.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// peelToCommit loads h as a commit, following annotated tags.
func (r *Repository) peelToCommit(h plumbing.Hash) (*object.Commit, error) {
	obj, err := r.repo.Object(plumbing.AnyObject, h)
	if err != nil {
		return nil, err
	}
	for {
		switch o := obj.(type) {
		case *object.Commit:
			return o, nil
		case *object.Tag:
			if obj, err = o.Object(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New(fmt.Sprintf("%s is a %s, not a commit", h, obj.Type()))
		}
	}
}

// ancestors returns the set of commits reachable from tip, tip included.
func ancestors(ctx context.Context, tip *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	iter := object.NewCommitPreorderIter(tip, nil, nil)
	defer iter.Close()
	err := iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	return seen, err
}

type commitIter struct {
	ctx  context.Context
	iter object.CommitIter
}

func (it *commitIter) Next() (*vcs.Commit, error) {
	if err := it.ctx.Err(); err != nil {
		return nil, err
	}
	c, err := it.iter.Next()
	if err != nil {
		return nil, err
	}
	return toCommit(c), nil
}

func (it *commitIter) Close() {
	it.iter.Close()
}

func toCommit(c *object.Commit) *vcs.Commit {
	return &vcs.Commit{
		ID:          vcs.ObjectID(c.Hash),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		AuthorTime:  c.Author.When,
		CommitTime:  c.Committer.When,
		Message:     c.Message,
	}
}
