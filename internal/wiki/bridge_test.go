package wiki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/quantmind-br/repotxt/internal/blob"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu          sync.Mutex
	pages       map[string]string
	order       []string
	cloneStatus int
	listStatus  int
	failPage    string
	auth        []string
	cloneBodies []string
}

func (f *fakeService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /clone-wiki", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.record(r, string(body))
		if f.cloneStatus != 0 {
			writeJSON(w, f.cloneStatus, map[string]string{
				"error":   "Failed to clone/update wiki repository",
				"details": "repository not found",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Wiki repository cloned successfully"})
	})
	mux.HandleFunc("GET /wiki-pages", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, "")
		assert.Equal(t, "https://github.com/octo/hello", r.URL.Query().Get("repoUrl"))
		if f.listStatus != 0 {
			writeJSON(w, f.listStatus, map[string]string{"error": "Wiki repository not found or not accessible"})
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"pages": f.order})
	})
	mux.HandleFunc("GET /wiki-pages/{page}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, "")
		page := r.PathValue("page")
		content, ok := f.pages[page]
		if !ok || page == f.failPage {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Wiki page not found or not accessible"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"content": content})
	})
	return mux
}

func (f *fakeService) record(r *http.Request, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if body != "" {
		f.cloneBodies = append(f.cloneBodies, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeService() *fakeService {
	return &fakeService{
		pages: map[string]string{
			"Home.md":        "# Home\n",
			"Setup Guide.md": "install it",
			"FAQ?.md":        "why?",
		},
		order: []string{"Setup Guide.md", "Home.md", "FAQ?.md"},
	}
}

func newTestBridge(baseURL string, blobs *blob.Store) *Bridge {
	return NewBridge(BridgeOptions{
		BaseURL: baseURL + "/",
		Blobs:   blobs,
		Logger:  utils.Nop(),
	})
}

func TestBridge_FetchWikiContents(t *testing.T) {
	svc := newFakeService()
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	bridge := newTestBridge(server.URL, nil)
	pages, err := bridge.FetchWikiContents(context.Background(), "octo", "hello.wiki", "tok")
	require.NoError(t, err)

	assert.Equal(t, []domain.WikiPage{
		{Path: "Setup Guide.md", Text: "install it"},
		{Path: "Home.md", Text: "# Home\n"},
		{Path: "FAQ?.md", Text: "why?"},
	}, pages)

	require.Len(t, svc.cloneBodies, 1)
	assert.JSONEq(t, `{"repoUrl":"https://github.com/octo/hello"}`, svc.cloneBodies[0])
	require.Len(t, svc.auth, 5)
	for _, h := range svc.auth {
		assert.Equal(t, "Bearer tok", h)
	}
}

func TestBridge_FetchWikiContentsWithoutToken(t *testing.T) {
	svc := newFakeService()
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	_, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")
	require.NoError(t, err)
	for _, h := range svc.auth {
		assert.Empty(t, h)
	}
}

func TestBridge_FetchWikiContentsEmptyWiki(t *testing.T) {
	svc := newFakeService()
	svc.order = []string{}
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	pages, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestBridge_CloneFailure(t *testing.T) {
	svc := newFakeService()
	svc.cloneStatus = http.StatusInternalServerError
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	_, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")

	var cloneErr *domain.CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, "https://github.com/octo/hello", cloneErr.RepoURL)
	assert.Equal(t, "repository not found", cloneErr.Details)
}

func TestBridge_ListingNotFound(t *testing.T) {
	svc := newFakeService()
	svc.listStatus = http.StatusNotFound
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	_, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")

	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBridge_ListingServerError(t *testing.T) {
	svc := newFakeService()
	svc.listStatus = http.StatusBadGateway
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	_, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
}

func TestBridge_PageFailureFailsAll(t *testing.T) {
	svc := newFakeService()
	svc.failPage = "Home.md"
	server := httptest.NewServer(svc.handler(t))
	defer server.Close()

	pages, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")
	assert.Nil(t, pages)
	assert.ErrorContains(t, err, "Home.md")
}

func TestBridge_ServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := newTestBridge(server.URL, nil).FetchWikiContents(context.Background(), "octo", "hello", "")

	var cloneErr *domain.CloneError
	assert.ErrorAs(t, err, &cloneErr)
}

func TestBridge_ToTreeEntries(t *testing.T) {
	blobs := blob.NewStore("wiki")
	bridge := newTestBridge("http://localhost:3000", blobs)

	entries := bridge.ToTreeEntries([]domain.WikiPage{
		{Path: "Home.md", Text: "# Home"},
		{Path: "Setup.md", Text: "setup"},
	})

	require.Len(t, entries, 2)
	assert.Same(t, blobs, bridge.Blobs())
	for i, want := range []string{"# Home", "setup"} {
		assert.True(t, entries[i].IsBlob())
		text, ok := blobs.Get(entries[i].URL)
		require.True(t, ok)
		assert.Equal(t, want, text)
	}
	assert.Equal(t, "Home.md", entries[0].Path)
	assert.NotEqual(t, entries[0].URL, entries[1].URL)

	client := &http.Client{Transport: blobs.Transport()}
	resp, err := client.Get(entries[1].URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "setup", string(body))
}
