// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rangelog prints the commits reachable from one endpoint of a
// repository but not from another.
package rangelog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bartekus/gitlog/internal/vcs"
)

// User-facing lines for requests that end without opening a repository.
const (
	MsgNoRepository = "No repository specified."
	MsgNoRange      = "Nothing to show log between."
)

// Request is one invocation of the command.
type Request struct {
	Repository string
	From       string
	To         string

	// Format is matched case-insensitively. Empty means TEXT.
	Format string

	// IncludeNotes is accepted for compatibility and has no effect.
	IncludeNotes bool
}

// Validate checks the request without touching any repository. Missing
// arguments yield a *UsageError wrapping ErrMissingArgument, an unknown
// format one wrapping ErrUnsupportedFormat.
func (r Request) Validate() error {
	if r.Repository == "" {
		return &UsageError{Msg: MsgNoRepository, Err: ErrMissingArgument}
	}
	if r.From == "" || r.To == "" {
		return &UsageError{Msg: MsgNoRange, Err: ErrMissingArgument}
	}
	_, err := ParseFormat(r.Format)
	return err
}

// Command runs range log requests against repositories opened by Manager.
type Command struct {
	Manager vcs.Manager
	Out     io.Writer

	// Logger defaults to discarding everything.
	Logger *slog.Logger

	// Location is used to render commit times. Defaults to time.Local.
	Location *time.Location
}

// Run executes req.
//
// A request missing its repository or an endpoint writes a one-line notice
// to Out and returns nil. An endpoint that cannot be resolved writes its
// notice and returns a *ResolutionError. Repository and walk failures are
// returned as *BackendError without writing anything further.
func (c *Command) Run(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		if errors.Is(err, ErrMissingArgument) {
			_, werr := fmt.Fprintln(c.Out, err.Error())
			return werr
		}
		return err
	}
	format, _ := ParseFormat(req.Format)

	logger := c.logger()
	if req.IncludeNotes {
		logger.Debug("notes are not rendered", "repository", req.Repository)
	}

	repo, err := c.Manager.Open(ctx, req.Repository)
	if err != nil {
		return &BackendError{Op: "open", Repository: req.Repository, Err: err}
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Warn("closing repository", "repository", req.Repository, "error", cerr)
		}
	}()

	res := &resolver{repo: repo}
	from, err := c.resolve(ctx, res, req.Repository, req.From)
	if err != nil {
		return err
	}
	to, err := c.resolve(ctx, res, req.Repository, req.To)
	if err != nil {
		return err
	}
	logger.Debug("resolved range",
		"repository", req.Repository,
		"from", req.From, "from_id", from.String(),
		"to", req.To, "to_id", to.String(),
	)

	iter, err := repo.LogRange(ctx, from, to)
	if err != nil {
		return &BackendError{Op: "log", Repository: req.Repository, Err: err}
	}
	defer iter.Close()

	r := newRenderer(format, c.Out, c.location())
	count := 0
	for {
		commit, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &BackendError{Op: "log", Repository: req.Repository, Err: err}
		}
		if err := r.Render(commit); err != nil {
			return &BackendError{Op: "write", Repository: req.Repository, Err: err}
		}
		count++
	}
	if err := r.Finish(count); err != nil {
		return &BackendError{Op: "write", Repository: req.Repository, Err: err}
	}

	logger.Debug("range log complete", "repository", req.Repository, "commits", count)
	return nil
}

func (c *Command) resolve(ctx context.Context, res *resolver, repository, endpoint string) (vcs.ObjectID, error) {
	id, err := res.resolve(ctx, endpoint)
	if err == nil {
		return id, nil
	}
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		if _, werr := fmt.Fprintln(c.Out, rerr.Error()); werr != nil {
			return vcs.ObjectID{}, &BackendError{Op: "write", Repository: repository, Err: werr}
		}
		return vcs.ObjectID{}, rerr
	}
	return vcs.ObjectID{}, &BackendError{Op: "refs", Repository: repository, Err: err}
}

func (c *Command) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

func (c *Command) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}
