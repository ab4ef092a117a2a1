// Package router maps navigation keys to render functions. Exactly one view
// is active at a time.
package router

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"cadence/internal/view"
)

// RenderFunc produces the main content for a page.
type RenderFunc func() *view.Node

// NavItem is one sidebar entry.
type NavItem struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// DefaultNav is the fixed navigation surface.
var DefaultNav = []NavItem{
	{Key: "home", Label: "Home"},
	{Key: "search", Label: "Search"},
	{Key: "library", Label: "Your Library"},
	{Key: "playlists", Label: "Playlists"},
}

// Router holds the registered pages and the active key.
type Router struct {
	mutex  sync.RWMutex
	nav    []NavItem
	pages  map[string]RenderFunc
	active string
}

// New creates a router over the given navigation entries.
func New(nav []NavItem) *Router {
	items := make([]NavItem, len(nav))
	copy(items, nav)
	for i := range items {
		items[i].Active = false
	}

	return &Router{
		nav:   items,
		pages: make(map[string]RenderFunc),
	}
}

// Register binds a render function to key.
func (r *Router) Register(key string, fn RenderFunc) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.pages[key] = fn
}

// Select activates key and returns its view. Keys without a render function
// get a placeholder titled after the key.
func (r *Router) Select(key string) *view.Node {
	r.mutex.Lock()
	r.active = key
	for i := range r.nav {
		r.nav[i].Active = r.nav[i].Key == key
	}
	fn := r.pages[key]
	r.mutex.Unlock()

	if fn == nil {
		return Placeholder(key)
	}
	return fn()
}

// Active returns the selected key.
func (r *Router) Active() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.active
}

// Items returns a copy of the navigation entries.
func (r *Router) Items() []NavItem {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := make([]NavItem, len(r.nav))
	copy(items, r.nav)
	return items
}

// Placeholder renders the title-cased key as a page title.
func Placeholder(key string) *view.Node {
	return view.Title(TitleCase(key))
}

// TitleCase upper-cases the first letter of key.
func TitleCase(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(key[size:])
	return b.String()
}
