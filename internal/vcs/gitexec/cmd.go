// SPDX-License-Identifier: AGPL-3.0-or-later

package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bobg/errors"
	"github.com/mattn/go-shellwords"
)

// Command is a parsed git invocation prefix such as ["git", "-c", "core.quotepath=off"].
type Command []string

// ParseCommand splits str as a shell would. An empty string means "git".
func ParseCommand(str string) (Command, error) {
	if strings.TrimSpace(str) == "" {
		return Command{"git"}, nil
	}
	words, err := shellwords.Parse(str)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing git command %q", str)
	}
	if len(words) == 0 {
		return nil, errors.New(fmt.Sprintf("parsing git command %q: no words", str))
	}
	return Command(words), nil
}

// exec builds an *exec.Cmd running the command against gitDir with args appended.
func (c Command) exec(ctx context.Context, gitDir string, args ...string) *exec.Cmd {
	argv := make([]string, 0, len(c)+len(args))
	argv = append(argv, c[1:]...)
	argv = append(argv, "--git-dir="+gitDir)
	argv = append(argv, args...)
	cmd := exec.CommandContext(ctx, c[0], argv...)
	cmd.Env = minimalEnv()
	return cmd
}

// output runs the command and returns stdout. On failure the error carries
// whatever the command wrote to stderr.
func (c Command) output(ctx context.Context, gitDir string, args ...string) ([]byte, error) {
	cmd := c.exec(ctx, gitDir, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, Error{Args: cmd.Args, Err: err, Output: stderr.String()}
	}
	return out, nil
}

// Error is returned when a git subprocess fails. Output holds its stderr.
type Error struct {
	Args   []string
	Err    error
	Output string
}

func (e Error) Error() string {
	out := strings.TrimRight(e.Output, "\r\n")
	if out == "" {
		return fmt.Sprintf("`%s`: %s", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("`%s`: %s\n%s", strings.Join(e.Args, " "), e.Err, out)
}

func (e Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the subprocess exit status, or -1 if it did not exit normally.
func (e Error) ExitCode() int {
	var ee *exec.ExitError
	if errors.As(e.Err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// minimalEnv keeps git from prompting or paging and from picking up
// repository selection variables from the caller's environment.
func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat",
		"LC_ALL=C",
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	return env
}
