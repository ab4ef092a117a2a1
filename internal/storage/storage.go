// Package storage defines the key/value contract behind every piece of
// persisted client data (theme choice, playlist overrides).
package storage

import "strings"

// Store is a string key/value store. Get reports found=false for missing
// keys; an error means the backend itself failed.
type Store interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Prefixed namespaces every key of an underlying Store.
type Prefixed struct {
	store  Store
	prefix string
}

// WithPrefix returns a Store whose keys are stored as "<prefix>/<key>".
func WithPrefix(store Store, prefix string) *Prefixed {
	return &Prefixed{
		store:  store,
		prefix: strings.TrimSuffix(prefix, "/") + "/",
	}
}

func (p *Prefixed) Get(key string) (string, bool, error) {
	return p.store.Get(p.prefix + key)
}

func (p *Prefixed) Set(key, value string) error {
	return p.store.Set(p.prefix+key, value)
}

// Prefix returns the namespace including its trailing separator.
func (p *Prefixed) Prefix() string {
	return p.prefix
}
