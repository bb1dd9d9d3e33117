package rangelog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/gitlog/internal/testutil/golden"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "TEXT", want: FormatText},
		{in: "text", want: FormatText},
		{in: " Json ", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "xml", wantErr: true},
		{in: "JSON_SINGLE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				assert.Contains(t, err.Error(), "TEXT, JSON")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func render(t *testing.T, f Format, loc *time.Location) string {
	t.Helper()
	var buf bytes.Buffer
	r := newRenderer(f, &buf, loc)
	commits := sampleCommits()
	for _, c := range commits {
		require.NoError(t, r.Render(c))
	}
	require.NoError(t, r.Finish(len(commits)))
	return buf.String()
}

func TestRender_Golden(t *testing.T) {
	dir := golden.TestdataDir(t)
	berlin := time.FixedZone("CET", 60*60)

	golden.Assert(t, dir, "text_utc", render(t, FormatText, time.UTC))
	golden.Assert(t, dir, "text_cet", render(t, FormatText, berlin))
	golden.Assert(t, dir, "json_utc", render(t, FormatJSON, time.UTC))
}

func TestRender_TextTrimsTrailingNewlines(t *testing.T) {
	var buf bytes.Buffer
	c := sampleCommits()[1]
	c.Message = "subject\n\n\n"
	require.NoError(t, newRenderer(FormatText, &buf, time.UTC).Render(c))
	assert.Contains(t, buf.String(), "\n\nsubject\n\n")
	assert.NotContains(t, buf.String(), "subject\n\n\n")
}

func TestRender_JSONEmptyRange(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(FormatJSON, &buf, time.UTC).Finish(0))
	assert.Equal(t, `{"type":"stats","rowCount":0}`+"\n", buf.String())
}
