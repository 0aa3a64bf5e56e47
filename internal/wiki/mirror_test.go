package wiki

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGitClient mocks gitclient.Client
type mockGitClient struct {
	mock.Mock
}

func (m *mockGitClient) PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error) {
	args := m.Called(ctx, path, isBare, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*git.Repository), args.Error(1)
}

func (m *mockGitClient) PlainOpen(path string) (*git.Repository, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*git.Repository), args.Error(1)
}

func (m *mockGitClient) Pull(ctx context.Context, repo *git.Repository, o *git.PullOptions) error {
	args := m.Called(ctx, repo, o)
	return args.Error(0)
}

func newTestMirror(fs billy.Filesystem, g *mockGitClient) *MirrorStore {
	return NewMirrorStore(MirrorOptions{
		Root:   "/mirrors",
		FS:     fs,
		Git:    g,
		Logger: utils.Nop(),
	})
}

func writePages(t *testing.T, fs billy.Filesystem, key string, pages map[string]string) {
	t.Helper()
	for name, content := range pages {
		require.NoError(t, util.WriteFile(fs, key+"/"+name, []byte(content), 0o644))
	}
}

func TestMirrorStore_SyncClonesMissingMirror(t *testing.T) {
	fs := memfs.New()
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	g.On("PlainCloneContext", mock.Anything, filepath.Join("/mirrors", "octo-hello-wiki"), false,
		mock.MatchedBy(func(o *git.CloneOptions) bool {
			return o.URL == "https://github.com/octo/hello.wiki.git" && o.Auth == nil
		})).
		Run(func(mock.Arguments) {
			writePages(t, fs, "octo-hello-wiki", map[string]string{"Home.md": "# Home"})
		}).
		Return(nil, nil).Once()

	result, err := store.Sync(context.Background(), "octo", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, SyncCloned, result)
	assert.Equal(t, "Wiki repository cloned successfully", result.Message())
	g.AssertExpectations(t)
}

func TestMirrorStore_SyncPullsExistingMirror(t *testing.T) {
	fs := memfs.New()
	writePages(t, fs, "octo-hello-wiki", map[string]string{"Home.md": "# Home"})
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	repo := &git.Repository{}
	g.On("PlainOpen", filepath.Join("/mirrors", "octo-hello-wiki")).Return(repo, nil).Once()
	g.On("Pull", mock.Anything, repo, mock.MatchedBy(func(o *git.PullOptions) bool {
		auth, ok := o.Auth.(*githttp.BasicAuth)
		return ok && auth.Username == "token" && auth.Password == "secret"
	})).Return(nil).Once()

	result, err := store.Sync(context.Background(), "octo", "hello.wiki", "secret")
	require.NoError(t, err)
	assert.Equal(t, SyncUpdated, result)
	assert.Equal(t, "Wiki repository updated successfully", result.Message())
	g.AssertExpectations(t)
}

func TestMirrorStore_SyncPullFailure(t *testing.T) {
	fs := memfs.New()
	writePages(t, fs, "octo-hello-wiki", map[string]string{"Home.md": "# Home"})
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	g.On("PlainOpen", mock.Anything).Return(&git.Repository{}, nil)
	g.On("Pull", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("network down"))

	_, err := store.Sync(context.Background(), "octo", "hello", "")

	var cloneErr *domain.CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, "https://github.com/octo/hello.wiki.git", cloneErr.RepoURL)
	assert.Contains(t, cloneErr.Details, "network down")

	pages, err := store.ListPages("octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"Home.md"}, pages)
}

func TestMirrorStore_SyncRecoversBrokenMirror(t *testing.T) {
	fs := memfs.New()
	writePages(t, fs, "octo-hello-wiki", map[string]string{"stale.md": "old"})
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	g.On("PlainOpen", mock.Anything).Return(nil, git.ErrRepositoryNotExists)
	g.On("PlainCloneContext", mock.Anything, mock.Anything, false, mock.Anything).
		Run(func(mock.Arguments) {
			writePages(t, fs, "octo-hello-wiki", map[string]string{"Home.md": "# Home"})
		}).
		Return(nil, nil)

	result, err := store.Sync(context.Background(), "octo", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, SyncCloned, result)

	pages, err := store.ListPages("octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"Home.md"}, pages)
}

func TestMirrorStore_SyncCloneFailureCleansUp(t *testing.T) {
	fs := memfs.New()
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	g.On("PlainCloneContext", mock.Anything, mock.Anything, false, mock.Anything).
		Run(func(mock.Arguments) {
			writePages(t, fs, "octo-hello-wiki", map[string]string{"partial.md": ""})
		}).
		Return(nil, errors.New("authentication required"))

	_, err := store.Sync(context.Background(), "octo", "hello", "")

	var cloneErr *domain.CloneError
	require.ErrorAs(t, err, &cloneErr)

	_, err = store.ListPages("octo", "hello")
	assert.ErrorIs(t, err, domain.ErrMirrorNotFound)
}

func TestMirrorStore_SyncSerializesPerKey(t *testing.T) {
	fs := memfs.New()
	g := new(mockGitClient)
	store := newTestMirror(fs, g)

	var inFlight, maxInFlight int32
	g.On("PlainCloneContext", mock.Anything, mock.Anything, false, mock.Anything).
		Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).
		Return(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Sync(context.Background(), "octo", "hello", "")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestMirrorStore_ListPages(t *testing.T) {
	fs := memfs.New()
	writePages(t, fs, "octo-hello-wiki", map[string]string{
		"Setup.md":      "setup",
		"Home.md":       "home",
		"logo.png":      "png",
		"_Sidebar.md":   "sidebar",
		"docs/Inner.md": "nested",
	})
	store := newTestMirror(fs, new(mockGitClient))

	pages, err := store.ListPages("octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"Home.md", "Setup.md", "_Sidebar.md"}, pages)
}

func TestMirrorStore_ListPagesMissingMirror(t *testing.T) {
	store := newTestMirror(memfs.New(), new(mockGitClient))

	_, err := store.ListPages("octo", "hello")
	assert.ErrorIs(t, err, domain.ErrMirrorNotFound)
}

func TestMirrorStore_ReadPage(t *testing.T) {
	fs := memfs.New()
	writePages(t, fs, "octo-hello-wiki", map[string]string{
		"Home.md":       "# Home\n",
		"docs/Inner.md": "nested",
	})
	writePages(t, fs, "other-secret-wiki", map[string]string{"Private.md": "secret"})
	store := newTestMirror(fs, new(mockGitClient))

	content, err := store.ReadPage("octo", "hello", "Home.md")
	require.NoError(t, err)
	assert.Equal(t, "# Home\n", content)

	for _, page := range []string{"", "Missing.md", "docs", "..", "../other-secret-wiki/Private.md", "docs/Inner.md", `..\x`} {
		t.Run(page, func(t *testing.T) {
			_, err := store.ReadPage("octo", "hello", page)
			assert.ErrorIs(t, err, domain.ErrPageNotFound)
		})
	}
}
