package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/quantmind-br/repotxt/internal/utils"
)

func TestCORS(t *testing.T) {
	h := newTestServer(&stubMirror{pages: map[string][]string{"octo/hello": {}}})

	t.Run("preflight from frontend", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/clone-wiki", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("foreign origin gets no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wiki-pages?repoUrl=https://github.com/octo/hello", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &utils.Logger{Logger: zerolog.New(&buf)}

	s := New(Options{Mirror: &stubMirror{}, FrontendURL: "http://localhost:5173", Logger: logger})
	req := httptest.NewRequest(http.MethodGet, "/wiki-pages", nil)
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":400`)
	assert.Contains(t, out, `"path":"/wiki-pages"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"component":"server"`)
}

func TestServerAddr(t *testing.T) {
	s := New(Options{Port: 4321, Mirror: &stubMirror{}, Logger: utils.Nop()})
	assert.Equal(t, ":4321", s.Addr())
}
