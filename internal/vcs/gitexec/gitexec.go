// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitexec implements the vcs collaborators by running the git
// executable. It is the fallback for hosts where go-git cannot read a
// repository (unsupported extensions, alternates, partial clones).
package gitexec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobg/errors"

	"github.com/bartekus/gitlog/internal/vcs"
)

// logFormat separates fields with NUL. With -z git also terminates each
// commit with NUL, so every commit is exactly logFields tokens.
const (
	logFormat = "--format=%H%x00%an%x00%ae%x00%aI%x00%cI%x00%B"
	logFields = 6
)

// PathResolver maps a repository name to a directory.
type PathResolver interface {
	Resolve(name string) (string, error)
}

// Manager opens repositories by running git.
type Manager struct {
	paths PathResolver
	git   Command
}

// NewManager returns a Manager that runs git as gitCommand (shell syntax,
// e.g. "git -c core.quotepath=off").
func NewManager(paths PathResolver, gitCommand string) (*Manager, error) {
	git, err := ParseCommand(gitCommand)
	if err != nil {
		return nil, err
	}
	return &Manager{paths: paths, git: git}, nil
}

// Open resolves name and checks that git accepts it as a repository.
func (m *Manager) Open(ctx context.Context, name string) (vcs.Repository, error) {
	dir, err := m.paths.Resolve(name)
	if err != nil {
		return nil, err
	}
	repo, err := m.open(ctx, dir)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (m *Manager) open(ctx context.Context, dir string) (*Repository, error) {
	gitDir := dir
	if fi, err := os.Stat(filepath.Join(dir, ".git")); err == nil && fi.IsDir() {
		gitDir = filepath.Join(dir, ".git")
	}
	if _, err := m.git.output(ctx, gitDir, "rev-parse", "--git-dir"); err != nil {
		var gerr Error
		if errors.As(err, &gerr) && gerr.ExitCode() > 0 {
			return nil, errors.Wrap(vcs.ErrRepositoryNotFound, dir)
		}
		return nil, errors.Wrapf(err, "opening %s", dir)
	}
	return &Repository{git: m.git, gitDir: gitDir}, nil
}

// Repository is a repository driven through the git executable.
type Repository struct {
	git    Command
	gitDir string
}

// AllRefs lists refs with for-each-ref and adds HEAD when it resolves.
func (r *Repository) AllRefs(ctx context.Context) (map[string]vcs.ObjectID, error) {
	out, err := r.git.output(ctx, r.gitDir, "for-each-ref", "--format=%(objectname) %(refname)")
	if err != nil {
		return nil, errors.Wrap(err, "listing references")
	}

	refs := make(map[string]vcs.ObjectID)
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, errors.New(fmt.Sprintf("listing references: malformed line %q", line))
		}
		id, err := vcs.ParseObjectID(hash)
		if err != nil {
			return nil, errors.Wrap(err, "listing references")
		}
		refs[name] = id
	}

	head, err := r.git.output(ctx, r.gitDir, "rev-parse", "--verify", "--quiet", "HEAD")
	if err == nil {
		id, err := vcs.ParseObjectID(strings.TrimSpace(string(head)))
		if err != nil {
			return nil, errors.Wrap(err, "reading HEAD")
		}
		refs["HEAD"] = id
	}
	return refs, nil
}

// LogRange streams `git log <to> ^<from>`.
func (r *Repository) LogRange(ctx context.Context, from, to vcs.ObjectID) (vcs.CommitIter, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := r.git.exec(ctx, r.gitDir, "log", "-z", logFormat, to.String(), "^"+from.String(), "--")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "starting git log")
	}
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrap(err, "starting git log")
	}

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	sc.Split(splitNUL)
	return &commitIter{cmd: cmd, cancel: cancel, stderr: stderr, sc: sc}, nil
}

// Close is a no-op; every git invocation is its own process.
func (r *Repository) Close() error {
	return nil
}

type commitIter struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stderr *bytes.Buffer
	sc     *bufio.Scanner
	done   bool
	err    error
}

func (it *commitIter) Next() (*vcs.Commit, error) {
	if it.done {
		return nil, it.result()
	}

	var fields [logFields]string
	for i := range fields {
		if !it.sc.Scan() {
			it.finish(it.sc.Err())
			if it.err == nil && i > 0 {
				it.err = errors.New(fmt.Sprintf("git log: truncated record after %d fields", i))
			}
			return nil, it.result()
		}
		fields[i] = it.sc.Text()
	}

	c, err := parseCommit(fields)
	if err != nil {
		it.finish(err)
		return nil, it.err
	}
	return c, nil
}

func (it *commitIter) Close() {
	if it.done {
		return
	}
	it.cancel()
	it.done = true
	_ = it.cmd.Wait()
}

// finish waits for the process and records the first failure.
func (it *commitIter) finish(err error) {
	if it.done {
		return
	}
	it.done = true
	if err != nil {
		it.cancel()
	}
	werr := it.cmd.Wait()
	it.cancel()
	switch {
	case err != nil:
		it.err = err
	case werr != nil:
		it.err = Error{Args: it.cmd.Args, Err: werr, Output: it.stderr.String()}
	}
}

func (it *commitIter) result() error {
	if it.err != nil {
		return it.err
	}
	return io.EOF
}

func parseCommit(f [logFields]string) (*vcs.Commit, error) {
	id, err := vcs.ParseObjectID(strings.TrimPrefix(f[0], "\n"))
	if err != nil {
		return nil, errors.Wrap(err, "git log")
	}
	authored, err := time.Parse(time.RFC3339, f[3])
	if err != nil {
		return nil, errors.Wrapf(err, "git log: author date of %s", id)
	}
	committed, err := time.Parse(time.RFC3339, f[4])
	if err != nil {
		return nil, errors.Wrapf(err, "git log: commit date of %s", id)
	}
	return &vcs.Commit{
		ID:          id,
		AuthorName:  f[1],
		AuthorEmail: f[2],
		AuthorTime:  authored,
		CommitTime:  committed,
		Message:     f[5],
	}, nil
}

// splitNUL is a bufio.SplitFunc yielding NUL-terminated tokens.
func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
