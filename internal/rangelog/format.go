// SPDX-License-Identifier: AGPL-3.0-or-later

package rangelog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bartekus/gitlog/internal/vcs"
)

// Format selects how commits are rendered.
type Format string

const (
	FormatText Format = "TEXT"
	FormatJSON Format = "JSON"
)

// DateLayout is the TEXT rendering of a commit time.
const DateLayout = "Mon Jan 02 15:04:05 MST 2006"

// Formats lists the supported formats, default first.
func Formats() []Format {
	return []Format{FormatText, FormatJSON}
}

// ParseFormat accepts any case of a supported format name. Empty means TEXT.
func ParseFormat(s string) (Format, error) {
	if strings.TrimSpace(s) == "" {
		return FormatText, nil
	}
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, known := range Formats() {
		names = append(names, string(known))
	}
	return "", &UsageError{
		Msg: fmt.Sprintf("unsupported format %q (must be one of %s)", s, strings.Join(names, ", ")),
		Err: ErrUnsupportedFormat,
	}
}

type renderer interface {
	Render(c *vcs.Commit) error
	Finish(count int) error
}

func newRenderer(f Format, w io.Writer, loc *time.Location) renderer {
	if f == FormatJSON {
		return &jsonRenderer{enc: json.NewEncoder(w), loc: loc}
	}
	return &textRenderer{w: w, loc: loc}
}

type textRenderer struct {
	w   io.Writer
	loc *time.Location
}

func (r *textRenderer) Render(c *vcs.Commit) error {
	_, err := fmt.Fprintf(r.w, "commit %s\nAuthor: %s %s\nDate: %s\n\n%s\n\n",
		c.ID,
		c.AuthorName,
		c.AuthorEmail,
		c.CommitTime.In(r.loc).Format(DateLayout),
		strings.TrimRight(c.Message, "\n"),
	)
	return err
}

func (r *textRenderer) Finish(int) error { return nil }

type person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type commitRow struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Author  person `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type statsRow struct {
	Type     string `json:"type"`
	RowCount int    `json:"rowCount"`
}

// jsonRenderer writes one object per line, closed by a stats row.
type jsonRenderer struct {
	enc *json.Encoder
	loc *time.Location
}

func (r *jsonRenderer) Render(c *vcs.Commit) error {
	return r.enc.Encode(commitRow{
		Type:    "commit",
		ID:      c.ID.String(),
		Author:  person{Name: c.AuthorName, Email: c.AuthorEmail},
		Date:    c.CommitTime.In(r.loc).Format(time.RFC3339),
		Message: c.Message,
	})
}

func (r *jsonRenderer) Finish(count int) error {
	return r.enc.Encode(statsRow{Type: "stats", RowCount: count})
}
