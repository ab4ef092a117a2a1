// Package theme holds the two-value color theme and its persistence.
package theme

import (
	"strings"
	"sync"

	"cadence/internal/storage"

	"github.com/sirupsen/logrus"
)

// Key is the storage key of the persisted theme.
const Key = "theme"

// Theme is the color scheme name
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Toggle returns the opposite theme. Anything that is not dark flips to dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Variable is one CSS custom property.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var lightVariables = []Variable{
	{"--bg-color", "#f5f5f5"},
	{"--sidebar-color", "#fff"},
	{"--text-color", "#121212"},
	{"--card-bg", "#fff"},
	{"--hover-bg", "#e0e0e0"},
}

var darkVariables = []Variable{
	{"--bg-color", "#121212"},
	{"--sidebar-color", "#1e1e1e"},
	{"--text-color", "#fff"},
	{"--card-bg", "#1e1e1e"},
	{"--hover-bg", "#333"},
}

// Variables returns the variable set for t. Unknown values get the dark set.
func (t Theme) Variables() []Variable {
	src := darkVariables
	if t == Light {
		src = lightVariables
	}
	return append([]Variable(nil), src...)
}

// Glyph returns the toggle control glyph.
func (t Theme) Glyph() string {
	if t == Light {
		return "☀️"
	}
	return "🌙"
}

// Controller applies and persists the theme of one client.
type Controller struct {
	store   storage.Store
	logger  *logrus.Logger
	mutex   sync.RWMutex
	current Theme
}

// NewController creates a controller and applies the persisted theme,
// defaulting to dark.
func NewController(store storage.Store, logger *logrus.Logger) *Controller {
	c := &Controller{store: store, logger: logger, current: Dark}
	if err := c.Apply(c.persisted()); err != nil {
		logger.WithError(err).Warn("Failed to persist restored theme")
	}
	return c
}

// persisted returns the raw persisted value, or dark if none is readable.
func (c *Controller) persisted() Theme {
	value, found, err := c.store.Get(Key)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read persisted theme")
		return Dark
	}
	if !found {
		return Dark
	}
	return Theme(value)
}

// Apply makes t the current theme and persists it. Values other than dark
// and light are persisted as given but render with the dark variables.
func (c *Controller) Apply(t Theme) error {
	c.mutex.Lock()
	c.current = t
	c.mutex.Unlock()

	return c.store.Set(Key, string(t))
}

// Toggle flips the persisted theme and applies the result.
func (c *Controller) Toggle() (Theme, error) {
	next := c.persisted().Toggle()
	if err := c.Apply(next); err != nil {
		return next, err
	}

	c.logger.WithField("theme", next).Debug("Theme toggled")
	return next, nil
}

// Current returns the applied theme.
func (c *Controller) Current() Theme {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.current
}

// Style renders the applied variables as a :root rule.
func (c *Controller) Style() string {
	var b strings.Builder
	b.WriteString(":root{")
	for _, v := range c.Current().Variables() {
		b.WriteString(v.Name)
		b.WriteByte(':')
		b.WriteString(v.Value)
		b.WriteByte(';')
	}
	b.WriteString("}")
	return b.String()
}
