// SPDX-License-Identifier: AGPL-3.0-or-later

/*
gitlog - prints the commits between two points of a repository's history.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/gitlog/cmd/gitlog/internal/clierr"
	"github.com/bartekus/gitlog/internal/config"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	basePath   string
	backend    string
	gitCommand string
	timezone   string
	verbose    bool
}

// overrides returns the flags the user actually set.
func (o *globalOptions) overrides(cmd *cobra.Command) *config.Overrides {
	ov := &config.Overrides{}
	flags := cmd.Flags()
	if flags.Changed("base-path") {
		ov.BasePath = &o.basePath
	}
	if flags.Changed("backend") {
		ov.Backend = &o.backend
	}
	if flags.Changed("git-command") {
		ov.GitCommand = &o.gitCommand
	}
	if flags.Changed("tz") {
		ov.Timezone = &o.timezone
	}
	return ov
}

// NewRootCmd constructs the gitlog root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("GITLOG_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "gitlog",
		Short:         "gitlog - list the commits between two revisions",
		Long:          "gitlog prints the commits reachable from one revision of a repository but not from another.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.ExitUsage, "invalid flags", err)
	})

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (.yaml or .toml); defaults to $GITLOG_CONFIG or the user config dir")
	pf.StringVar(&opts.basePath, "base-path", "", "directory holding the repositories")
	pf.StringVar(&opts.backend, "backend", "", "repository backend: go-git or exec")
	pf.StringVar(&opts.gitCommand, "git-command", "", "git invocation used by the exec backend")
	pf.StringVar(&opts.timezone, "tz", "", "IANA time zone for commit dates")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of gitlog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gitlog version %s\n", version)
		},
	})

	cmd.AddCommand(NewLogCommand(opts))

	return cmd
}
