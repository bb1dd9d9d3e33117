// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/gitlog/cmd/gitlog/internal/clierr"
	"github.com/bartekus/gitlog/internal/config"
	"github.com/bartekus/gitlog/internal/logging"
	"github.com/bartekus/gitlog/internal/rangelog"
	"github.com/bartekus/gitlog/internal/repopath"
	"github.com/bartekus/gitlog/internal/vcs"
	"github.com/bartekus/gitlog/internal/vcs/gitexec"
	"github.com/bartekus/gitlog/internal/vcs/gogit"
)

func NewLogCommand(opts *globalOptions) *cobra.Command {
	var (
		from         string
		to           string
		format       string
		includeNotes bool
	)

	cmd := &cobra.Command{
		Use:   "log <repository>",
		Short: "Show the commits reachable from --to but not from --from",
		Long: `Show the commits reachable from --to but not from --from, newest first.

Each endpoint is either a full 40 character commit id or a reference name.
Short names are tried as refs/<name>, refs/tags/<name>, refs/heads/<name>,
refs/remotes/<name> and refs/remotes/<name>/HEAD.`,
		Example: `  gitlog log project --from v1.0 --to main
  gitlog log tools/cli --from 1f0e... --to refs/heads/release --format json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return clierr.Newf(clierr.ExitUsage, "log accepts one repository, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := rangelog.Request{From: from, To: to, IncludeNotes: includeNotes}
			if len(args) == 1 {
				req.Repository = args[0]
			}
			// Missing arguments are reported before any configuration is read.
			if err := req.Validate(); errors.Is(err, rangelog.ErrMissingArgument) {
				fmt.Fprintln(cmd.OutOrStdout(), err.Error())
				return nil
			}

			ov := opts.overrides(cmd)
			if cmd.Flags().Changed("format") {
				ov.Format = &format
			}
			cfg, err := config.Load(config.LoadOptions{
				Path:      opts.configPath,
				DotEnv:    ".env",
				Overrides: ov,
			})
			if err != nil {
				return clierr.Wrap(clierr.ExitConfig, "configuration", err)
			}

			level, _ := logging.ParseLevel(cfg.LogLevel)
			logger := logging.New(cmd.ErrOrStderr(), level, opts.verbose)
			if cfg.Source != "" {
				logger.Debug("loaded config", "path", cfg.Source)
			}

			manager, err := newManager(cfg)
			if err != nil {
				return clierr.Wrap(clierr.ExitConfig, "backend", err)
			}
			req.Format = cfg.Format

			rc := &rangelog.Command{
				Manager:  manager,
				Out:      cmd.OutOrStdout(),
				Logger:   logger,
				Location: cfg.Location(),
			}
			return exitError(logger, req.Repository, rc.Run(cmd.Context(), req))
		},
	}

	formats := make([]string, 0, len(rangelog.Formats()))
	for _, f := range rangelog.Formats() {
		formats = append(formats, string(f))
	}

	cmd.Flags().StringVar(&from, "from", "", "revision to exclude, with its ancestors")
	cmd.Flags().StringVar(&to, "to", "", "revision to list from")
	cmd.Flags().StringVar(&format, "format", "", fmt.Sprintf("output format: %s (default TEXT)", strings.Join(formats, ", ")))
	cmd.Flags().BoolVar(&includeNotes, "include-notes", false, "accepted for compatibility; notes are not shown")

	return cmd
}

func newManager(cfg *config.Config) (vcs.Manager, error) {
	paths := repopath.New(cfg.BasePath, cfg.Repositories)
	if cfg.Backend == config.BackendExec {
		m, err := gitexec.NewManager(paths, cfg.GitCommand)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return gogit.NewManager(paths), nil
}

// exitError maps range log outcomes to exit codes. An unresolved endpoint has
// already been reported on stdout and is not a failure.
func exitError(logger *slog.Logger, repository string, err error) error {
	if err == nil {
		return nil
	}

	var (
		rerr *rangelog.ResolutionError
		uerr *rangelog.UsageError
		berr *rangelog.BackendError
	)
	switch {
	case errors.As(err, &rerr):
		return nil
	case errors.As(err, &uerr):
		return clierr.New(clierr.ExitUsage, uerr.Msg)
	case errors.Is(err, vcs.ErrInvalidRepositoryName):
		return clierr.Newf(clierr.ExitUsage, "invalid repository name %q", repository)
	case errors.Is(err, vcs.ErrRepositoryNotFound):
		return clierr.Newf(clierr.ExitBackend, "repository %q not found", repository)
	case errors.As(err, &berr):
		logger.Error("range log failed", "op", berr.Op, "repository", berr.Repository, "error", berr.Err)
		return clierr.Newf(clierr.ExitBackend, "%s %s failed", berr.Op, repository)
	}
	return err
}
