package wiki

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/quantmind-br/repotxt/internal/config"
	"github.com/quantmind-br/repotxt/internal/domain"
	gitclient "github.com/quantmind-br/repotxt/internal/git"
	"github.com/quantmind-br/repotxt/internal/repourl"
	"github.com/quantmind-br/repotxt/internal/utils"
)

// SyncResult tells whether a mirror was freshly cloned or updated in place
type SyncResult int

const (
	SyncCloned SyncResult = iota
	SyncUpdated
)

// Message returns the response text the wiki service reports for the result
func (r SyncResult) Message() string {
	if r == SyncUpdated {
		return "Wiki repository updated successfully"
	}
	return "Wiki repository cloned successfully"
}

// MirrorOptions configures a MirrorStore
type MirrorOptions struct {
	// Root is the directory holding one mirror per wiki
	Root string
	// FS reads pages; defaults to an OS filesystem rooted at Root
	FS billy.Filesystem
	Git gitclient.Client
	// CloneURL builds the remote for owner/repo; defaults to the GitHub wiki URL
	CloneURL func(owner, repo string) string
	Logger   *utils.Logger
}

// MirrorStore keeps local clones of repository wikis
type MirrorStore struct {
	root     string
	fs       billy.Filesystem
	git      gitclient.Client
	cloneURL func(owner, repo string) string
	logger   *utils.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMirrorStore creates a MirrorStore
func NewMirrorStore(opts MirrorOptions) *MirrorStore {
	if opts.Root == "" {
		opts.Root = config.MirrorDir()
	}
	if opts.FS == nil {
		opts.FS = osfs.New(opts.Root)
	}
	if opts.Git == nil {
		opts.Git = gitclient.NewClient()
	}
	if opts.CloneURL == nil {
		opts.CloneURL = repourl.WikiCloneURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &MirrorStore{
		root:     opts.Root,
		fs:       opts.FS,
		git:      opts.Git,
		cloneURL: opts.CloneURL,
		logger:   logger.WithComponent("mirror"),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Root returns the mirror root directory
func (s *MirrorStore) Root() string {
	return s.root
}

// lock serializes operations on a single mirror
func (s *MirrorStore) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Sync clones the wiki of owner/repo, or pulls it when a mirror already exists
func (s *MirrorStore) Sync(ctx context.Context, owner, repo, token string) (SyncResult, error) {
	key := repourl.MirrorKey(owner, repo)
	unlock := s.lock(key)
	defer unlock()

	remote := s.cloneURL(owner, repo)
	dir := filepath.Join(s.root, key)
	logger := s.logger.WithRepo(owner, repo)

	var auth *githttp.BasicAuth
	if token != "" {
		auth = &githttp.BasicAuth{Username: "token", Password: token}
	}

	if s.exists(key) {
		r, err := s.git.PlainOpen(dir)
		if err == nil {
			opts := &git.PullOptions{RemoteName: "origin"}
			if auth != nil {
				opts.Auth = auth
			}
			if err := s.git.Pull(ctx, r, opts); err != nil {
				logger.Error().Err(err).Msg("Wiki pull failed")
				return SyncUpdated, domain.NewCloneError(remote, err.Error(), err)
			}
			logger.Info().Str("dir", dir).Msg("Wiki mirror updated")
			return SyncUpdated, nil
		}

		// Not a repository; start over
		logger.Warn().Err(err).Str("dir", dir).Msg("Discarding broken wiki mirror")
		if err := util.RemoveAll(s.fs, key); err != nil {
			return SyncCloned, domain.NewCloneError(remote, err.Error(), err)
		}
	}

	opts := &git.CloneOptions{URL: remote}
	if auth != nil {
		opts.Auth = auth
	}

	logger.Info().Str("url", remote).Str("dir", dir).Msg("Cloning wiki")
	if _, err := s.git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		_ = util.RemoveAll(s.fs, key)
		logger.Error().Err(err).Msg("Wiki clone failed")
		return SyncCloned, domain.NewCloneError(remote, err.Error(), err)
	}
	return SyncCloned, nil
}

func (s *MirrorStore) exists(key string) bool {
	fi, err := s.fs.Stat(key)
	return err == nil && fi.IsDir()
}

// ListPages returns the .md file names at the top level of the mirror, sorted
func (s *MirrorStore) ListPages(owner, repo string) ([]string, error) {
	key := repourl.MirrorKey(owner, repo)
	unlock := s.lock(key)
	defer unlock()

	infos, err := s.fs.ReadDir(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrMirrorNotFound
		}
		return nil, err
	}

	pages := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasSuffix(fi.Name(), ".md") {
			pages = append(pages, fi.Name())
		}
	}
	sort.Strings(pages)
	return pages, nil
}

// ReadPage returns the content of a single page of the mirror
func (s *MirrorStore) ReadPage(owner, repo, page string) (string, error) {
	if page == "" || page != path.Base(page) || page == "." || page == ".." || strings.ContainsRune(page, '\\') {
		return "", domain.ErrPageNotFound
	}

	key := repourl.MirrorKey(owner, repo)
	unlock := s.lock(key)
	defer unlock()

	name := path.Join(key, page)
	if fi, err := s.fs.Stat(name); err == nil && fi.IsDir() {
		return "", domain.ErrPageNotFound
	}

	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrPageNotFound
		}
		return "", err
	}
	return string(data), nil
}
