package storage

import (
	"context"
	"strings"
)

// Namespaced scopes every key of an underlying store under a prefix
type Namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a view of store whose keys live under name/
func Namespace(store Store, name string) *Namespaced {
	return &Namespaced{store: store, prefix: name + "/"}
}

// Prefix returns the namespace prefix including the trailing slash
func (n *Namespaced) Prefix() string {
	return n.prefix
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

func (n *Namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.store.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}

// Clear deletes every key in the namespace
func (n *Namespaced) Clear(ctx context.Context) error {
	keys, err := n.Keys(ctx, "")
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := n.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the underlying store is owned elsewhere
func (n *Namespaced) Close() error {
	return nil
}
