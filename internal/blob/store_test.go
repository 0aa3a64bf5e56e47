package blob

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore("test")

	loc := s.Put("# Home\n")
	assert.True(t, strings.HasPrefix(loc, "blob://test/"))

	text, ok := s.Get(loc)
	require.True(t, ok)
	assert.Equal(t, "# Home\n", text)

	_, ok = s.Get("blob://other/" + strings.TrimPrefix(loc, "blob://test/"))
	assert.False(t, ok)

	_, ok = s.Get("https://api.github.com/x")
	assert.False(t, ok)
}

func TestStore_DistinctLocators(t *testing.T) {
	s := NewStore("")

	a := s.Put("same")
	b := s.Put("same")

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Retain(t *testing.T) {
	s := NewStore("test")
	keep := s.Put("keep")
	drop := s.Put("drop")

	s.Retain([]string{keep, "https://api.github.com/x", "blob://test/unknown"})

	text, ok := s.Get(keep)
	assert.True(t, ok)
	assert.Equal(t, "keep", text)
	_, ok = s.Get(drop)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Retain(nil)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Delete(t *testing.T) {
	s := NewStore("test")
	a := s.Put("a")
	b := s.Put("b")

	s.Delete(a, "blob://other/"+a[len("blob://test/"):], "api/readme")

	_, ok := s.Get(a)
	assert.False(t, ok)
	_, ok = s.Get(b)
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentPut(t *testing.T) {
	s := NewStore("test")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Put("page")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestStore_ThroughHTTPClient(t *testing.T) {
	s := NewStore("test")
	loc := s.Put("wiki body\nwith lines")
	client := &http.Client{Transport: s.Transport()}

	t.Run("found", func(t *testing.T) {
		resp, err := client.Get(loc)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "wiki body\nwith lines", string(body))
	})

	t.Run("missing", func(t *testing.T) {
		resp, err := client.Get("blob://test/does-not-exist")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := client.Post(loc, "text/plain", strings.NewReader("x"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
