// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repopath maps repository names to directories on disk.
//
// A name is either an explicit alias from configuration or a path relative to
// the base directory, looked up first as a bare repository (<name>.git) and
// then as a plain directory (<name>).
package repopath

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bartekus/gitlog/internal/vcs"
)

// Resolver resolves repository names against a base directory.
type Resolver struct {
	BaseDir string
	Aliases map[string]string
}

// New returns a Resolver rooted at baseDir.
func New(baseDir string, aliases map[string]string) *Resolver {
	return &Resolver{BaseDir: baseDir, Aliases: aliases}
}

// Validate rejects names that cannot be safely joined under the base directory.
func Validate(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", vcs.ErrInvalidRepositoryName)
	case strings.HasPrefix(name, "/") || filepath.IsAbs(name):
		return fmt.Errorf("%w: %q is absolute", vcs.ErrInvalidRepositoryName, name)
	case strings.HasSuffix(name, "/"):
		return fmt.Errorf("%w: %q ends with /", vcs.ErrInvalidRepositoryName, name)
	case strings.ContainsRune(name, '\\'):
		return fmt.Errorf("%w: %q contains a backslash", vcs.ErrInvalidRepositoryName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q has an empty or relative segment", vcs.ErrInvalidRepositoryName, name)
		}
	}
	if path.Base(name) == ".git" {
		return fmt.Errorf("%w: %q names a .git directory", vcs.ErrInvalidRepositoryName, name)
	}
	return nil
}

// Resolve returns the directory holding the named repository.
// It returns vcs.ErrRepositoryNotFound when no candidate exists.
func (r *Resolver) Resolve(name string) (string, error) {
	if p, ok := r.Aliases[name]; ok {
		if !filepath.IsAbs(p) {
			p = filepath.Join(r.BaseDir, p)
		}
		if !isDir(p) {
			return "", fmt.Errorf("%w: %s (alias for %s)", vcs.ErrRepositoryNotFound, p, name)
		}
		return p, nil
	}

	if err := Validate(name); err != nil {
		return "", err
	}

	name = strings.TrimSuffix(path.Clean(name), ".git")
	base := filepath.Join(r.BaseDir, filepath.FromSlash(name))
	for _, candidate := range []string{base + ".git", base} {
		if isDir(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", vcs.ErrRepositoryNotFound, name)
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
