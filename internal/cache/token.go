package cache

import (
	"context"
	"errors"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// TokenKey is the fixed key the access token is stored under
const TokenKey = "githubAccessToken"

// TokenStore persists the access token across runs
type TokenStore struct {
	store *BadgerStore
}

var _ domain.TokenStore = (*TokenStore)(nil)

// NewTokenStore opens the token store
func NewTokenStore(opts Options) (*TokenStore, error) {
	store, err := NewBadgerStore(opts)
	if err != nil {
		return nil, err
	}
	return &TokenStore{store: store}, nil
}

// Load returns the saved token, or "" when none is saved
func (t *TokenStore) Load(ctx context.Context) (string, error) {
	value, err := t.store.Get(ctx, TokenKey)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Save writes a non-empty token and removes the entry for an empty one
func (t *TokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return t.store.Delete(ctx, TokenKey)
	}
	return t.store.Set(ctx, TokenKey, []byte(token))
}

// Close releases the underlying store
func (t *TokenStore) Close() error {
	return t.store.Close()
}
