// Package blob keeps text in memory behind blob:// URLs so that locally
// produced content can be retrieved through an ordinary http.Client.
package blob

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme is the URL scheme served by Store
const Scheme = "blob"

// Store is an in-memory text store that doubles as an http.RoundTripper for blob:// URLs
type Store struct {
	mu    sync.RWMutex
	host  string
	items map[string]string
}

// NewStore creates an empty store whose URLs use host as authority
func NewStore(host string) *Store {
	if host == "" {
		host = "local"
	}
	return &Store{
		host:  host,
		items: make(map[string]string),
	}
}

// Put stores text and returns its locator
func (s *Store) Put(text string) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.items[id] = text
	s.mu.Unlock()

	return fmt.Sprintf("%s://%s/%s", Scheme, s.host, id)
}

// Get returns the text behind a locator
func (s *Store) Get(locator string) (string, bool) {
	id, ok := s.idOf(locator)
	if !ok {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.items[id]
	return text, ok
}

// Len returns the number of stored items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Retain drops every item whose locator is not in locators
func (s *Store) Retain(locators []string) {
	keep := make(map[string]string, len(locators))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range locators {
		if id, ok := s.idOf(loc); ok {
			if text, ok := s.items[id]; ok {
				keep[id] = text
			}
		}
	}
	s.items = keep
}

// Delete drops the items behind locators. Foreign locators are ignored.
func (s *Store) Delete(locators ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range locators {
		if id, ok := s.idOf(loc); ok {
			delete(s.items, id)
		}
	}
}

func (s *Store) idOf(locator string) (string, bool) {
	prefix := Scheme + "://" + s.host + "/"
	if !strings.HasPrefix(locator, prefix) {
		return "", false
	}
	return strings.TrimPrefix(locator, prefix), true
}

// RoundTrip serves GET requests for stored blobs
func (s *Store) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_ = req.Body.Close()
	}

	status := http.StatusOK
	var body string
	switch {
	case req.Method != http.MethodGet && req.Method != http.MethodHead:
		status = http.StatusMethodNotAllowed
	default:
		text, ok := s.Get(req.URL.String())
		if !ok {
			status = http.StatusNotFound
		} else {
			body = text
		}
	}

	if req.Method == http.MethodHead {
		body = ""
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:          io.NopCloser(bytes.NewBufferString(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

// Transport returns a clone of http.DefaultTransport that also serves blob:// URLs from s
func (s *Store) Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol(Scheme, s)
	return t
}
