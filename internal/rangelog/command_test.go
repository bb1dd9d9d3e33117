package rangelog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/gitlog/internal/vcs"
	"github.com/bartekus/gitlog/internal/vcs/mock_vcs"
)

var (
	idC1 = mustID("1111111111111111111111111111111111111111")
	idC2 = mustID("2222222222222222222222222222222222222222")
	idC3 = mustID("3333333333333333333333333333333333333333")
)

func mustID(s string) vcs.ObjectID {
	id, err := vcs.ParseObjectID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func sampleCommits() []*vcs.Commit {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return []*vcs.Commit{
		{
			ID:          idC3,
			AuthorName:  "Ada Lovelace",
			AuthorEmail: "ada@example.com",
			AuthorTime:  base.Add(2 * time.Minute),
			CommitTime:  base.Add(2 * time.Minute),
			Message:     "C3\n\nbody of commit 3\n",
		},
		{
			ID:          idC2,
			AuthorName:  "Ada Lovelace",
			AuthorEmail: "ada@example.com",
			AuthorTime:  base.Add(time.Minute),
			CommitTime:  base.Add(time.Minute),
			Message:     "C2\n",
		},
	}
}

func newCommand(m vcs.Manager, out *bytes.Buffer) *Command {
	return &Command{Manager: m, Out: out, Location: time.UTC}
}

func TestRun_MissingArguments(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{name: "no repository", req: Request{From: "a", To: "b"}, want: MsgNoRepository + "\n"},
		{name: "no repository wins over no range", req: Request{}, want: MsgNoRepository + "\n"},
		{name: "no from", req: Request{Repository: "p", To: "b"}, want: MsgNoRange + "\n"},
		{name: "no to", req: Request{Repository: "p", From: "a"}, want: MsgNoRange + "\n"},
		{name: "no endpoints", req: Request{Repository: "p"}, want: MsgNoRange + "\n"},
		{name: "missing args beat bad format", req: Request{Repository: "p", Format: "xml"}, want: MsgNoRange + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mock_vcs.NewMockManager(ctrl)
			// No Open expected: the controller fails the test on any call.

			var out bytes.Buffer
			err := newCommand(m, &out).Run(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_UnsupportedFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{Repository: "p", From: "a", To: "b", Format: "xml"})

	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, out.String())
}

func TestRun_TextOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	repo := mock_vcs.NewMockRepository(ctrl)

	m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
	repo.EXPECT().AllRefs(gomock.Any()).Return(map[string]vcs.ObjectID{
		"refs/heads/main": idC3,
		"refs/tags/v1":    idC1,
	}, nil).Times(1)
	repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(vcs.NewSliceIter(sampleCommits()), nil)
	repo.EXPECT().Close().Return(nil)

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{
		Repository: "project",
		From:       "refs/tags/v1",
		To:         "refs/heads/main",
	})
	require.NoError(t, err)

	want := "commit 3333333333333333333333333333333333333333\n" +
		"Author: Ada Lovelace ada@example.com\n" +
		"Date: Fri Mar 01 12:02:00 UTC 2024\n" +
		"\n" +
		"C3\n\nbody of commit 3\n" +
		"\n" +
		"commit 2222222222222222222222222222222222222222\n" +
		"Author: Ada Lovelace ada@example.com\n" +
		"Date: Fri Mar 01 12:01:00 UTC 2024\n" +
		"\n" +
		"C2\n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestRun_ObjectIDsSkipRefTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	repo := mock_vcs.NewMockRepository(ctrl)

	m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
	repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(vcs.NewSliceIter(nil), nil)
	repo.EXPECT().Close().Return(nil)

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{
		Repository: "project",
		From:       idC1.String(),
		To:         strings.ToUpper(idC3.String()),
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRun_MixedEndpointsFetchRefsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	repo := mock_vcs.NewMockRepository(ctrl)

	m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
	repo.EXPECT().AllRefs(gomock.Any()).Return(map[string]vcs.ObjectID{"refs/heads/main": idC3}, nil).Times(1)
	repo.EXPECT().LogRange(gomock.Any(), idC3, idC3).Return(vcs.NewSliceIter(nil), nil)
	repo.EXPECT().Close().Return(nil)

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{
		Repository: "project",
		From:       "main",
		To:         "main",
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRun_UnresolvedEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{name: "from", from: "nope", to: "refs/heads/main", want: "nope"},
		{name: "to", from: "refs/heads/main", to: "nope", want: "nope"},
		{name: "forty chars not hex", from: strings.Repeat("g", 40), to: "refs/heads/main", want: strings.Repeat("g", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mock_vcs.NewMockManager(ctrl)
			repo := mock_vcs.NewMockRepository(ctrl)

			m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
			repo.EXPECT().AllRefs(gomock.Any()).Return(map[string]vcs.ObjectID{"refs/heads/main": idC3}, nil).Times(1)
			repo.EXPECT().Close().Return(nil)
			// No LogRange expected.

			var out bytes.Buffer
			err := newCommand(m, &out).Run(context.Background(), Request{Repository: "project", From: tt.from, To: tt.to})

			var rerr *ResolutionError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.want, rerr.Endpoint)
			assert.Equal(t, tt.want+" does not point to a valid git reference.\n", out.String())
		})
	}
}

func TestRun_OpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	m.EXPECT().Open(gomock.Any(), "ghost").Return(nil, vcs.ErrRepositoryNotFound)

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{Repository: "ghost", From: "a", To: "b"})

	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "open", berr.Op)
	assert.Equal(t, "ghost", berr.Repository)
	assert.ErrorIs(t, err, vcs.ErrRepositoryNotFound)
	assert.Empty(t, out.String())
}

func TestRun_BackendFailuresCloseRepository(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		setup  func(repo *mock_vcs.MockRepository, iter *mock_vcs.MockCommitIter)
		wantOp string
	}{
		{
			name: "refs",
			setup: func(repo *mock_vcs.MockRepository, _ *mock_vcs.MockCommitIter) {
				repo.EXPECT().AllRefs(gomock.Any()).Return(nil, boom)
			},
			wantOp: "refs",
		},
		{
			name: "log range",
			setup: func(repo *mock_vcs.MockRepository, _ *mock_vcs.MockCommitIter) {
				repo.EXPECT().AllRefs(gomock.Any()).Return(map[string]vcs.ObjectID{"HEAD": idC3, "refs/tags/v1": idC1}, nil)
				repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(nil, boom)
			},
			wantOp: "log",
		},
		{
			name: "iteration",
			setup: func(repo *mock_vcs.MockRepository, iter *mock_vcs.MockCommitIter) {
				repo.EXPECT().AllRefs(gomock.Any()).Return(map[string]vcs.ObjectID{"HEAD": idC3, "refs/tags/v1": idC1}, nil)
				repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(iter, nil)
				iter.EXPECT().Next().Return(nil, boom)
				iter.EXPECT().Close()
			},
			wantOp: "log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mock_vcs.NewMockManager(ctrl)
			repo := mock_vcs.NewMockRepository(ctrl)
			iter := mock_vcs.NewMockCommitIter(ctrl)

			m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
			tt.setup(repo, iter)
			repo.EXPECT().Close().Return(nil).Times(1)

			var out bytes.Buffer
			err := newCommand(m, &out).Run(context.Background(), Request{Repository: "project", From: "v1", To: "HEAD"})

			var berr *BackendError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tt.wantOp, berr.Op)
			assert.ErrorIs(t, err, boom)
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_CloseErrorIsNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	repo := mock_vcs.NewMockRepository(ctrl)

	m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
	repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(vcs.NewSliceIter(nil), nil)
	repo.EXPECT().Close().Return(errors.New("close failed"))

	var out bytes.Buffer
	err := newCommand(m, &out).Run(context.Background(), Request{Repository: "project", From: idC1.String(), To: idC3.String()})
	assert.NoError(t, err)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRun_WriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_vcs.NewMockManager(ctrl)
	repo := mock_vcs.NewMockRepository(ctrl)

	m.EXPECT().Open(gomock.Any(), "project").Return(repo, nil)
	repo.EXPECT().LogRange(gomock.Any(), idC1, idC3).Return(vcs.NewSliceIter(sampleCommits()), nil)
	repo.EXPECT().Close().Return(nil)

	cmd := &Command{Manager: m, Out: failWriter{}, Location: time.UTC}
	err := cmd.Run(context.Background(), Request{Repository: "project", From: idC1.String(), To: idC3.String()})

	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "write", berr.Op)
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, Request{Repository: "p", From: "a", To: "b"}.Validate())
	assert.NoError(t, Request{Repository: "p", From: "a", To: "b", Format: "json"}.Validate())
	assert.ErrorIs(t, Request{From: "a", To: "b"}.Validate(), ErrMissingArgument)
	assert.ErrorIs(t, Request{Repository: "p", From: "a", To: "b", Format: "yaml"}.Validate(), ErrUnsupportedFormat)
}

func TestBackendError(t *testing.T) {
	err := &BackendError{Op: "open", Repository: "p", Err: vcs.ErrRepositoryNotFound}
	assert.Equal(t, "open p: repository not found", err.Error())
	assert.True(t, errors.Is(err, vcs.ErrRepositoryNotFound))
}
