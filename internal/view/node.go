// Package view is the typed tree render functions produce. Trees are
// rendered to HTML fragments with golang.org/x/net/html.
package view

import "strconv"

// Kind identifies what a Node renders as.
type Kind int

const (
	KindFragment Kind = iota
	KindContainer
	KindHeading
	KindTitle
	KindText
	KindGrid
	KindCard
	KindCardInfo
	KindImage
	KindButton
	KindInput
	KindSlider
	KindNav
	KindNavItem
)

// Trigger events an Action can be bound to.
const (
	TriggerClick = "click"
	TriggerInput = "input"
)

// Action is a request the page script issues when the node's trigger fires.
// The response replaces the content of Target (a CSS selector); an empty
// Target means the response is a player or theme update handled by the
// script itself.
type Action struct {
	Method          string
	URL             string
	Target          string
	Trigger         string
	StopPropagation bool
}

// Node is one element of a view tree.
type Node struct {
	Kind     Kind
	Tag      string // containers only; defaults to div
	ID       string
	Classes  []string
	Text     string
	Data     map[string]string // rendered as data-* attributes
	Attrs    map[string]string
	Action   *Action
	Children []*Node

	// Images
	Src     string
	Alt     string
	Lazy    bool
	DataSrc string

	// Inputs and sliders
	Placeholder string
	Min, Max    int
	Value       float64

	// Navigation items
	Active bool
}

// Fragment groups nodes without a wrapping element.
func Fragment(children ...*Node) *Node {
	return &Node{Kind: KindFragment, Children: compact(children)}
}

// Container is a generic element, div unless tag is given.
func Container(tag string, children ...*Node) *Node {
	return &Node{Kind: KindContainer, Tag: tag, Children: compact(children)}
}

// Heading is a section heading.
func Heading(text string) *Node {
	return &Node{Kind: KindHeading, Text: text}
}

// Title is a centered page title.
func Title(text string) *Node {
	return &Node{Kind: KindTitle, Text: text}
}

// Text is a paragraph.
func Text(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Grid lays cards out in the dashboard grid.
func Grid(children ...*Node) *Node {
	return &Node{Kind: KindGrid, Children: compact(children)}
}

// Card is a clickable tile with an image and a CardInfo block.
func Card(children ...*Node) *Node {
	return &Node{Kind: KindCard, Children: compact(children)}
}

// CardInfo holds a card's text lines and controls.
func CardInfo(title, subtitle string, extra ...*Node) *Node {
	children := []*Node{{Kind: KindContainer, Tag: "h4", Text: title}, Text(subtitle)}
	return &Node{Kind: KindCardInfo, Children: append(children, compact(extra)...)}
}

// Image is a lazily loaded image. The real source is held aside until the
// loader reveals it.
func Image(src, alt string) *Node {
	return &Node{Kind: KindImage, Alt: alt, Lazy: true, DataSrc: src}
}

// EagerImage is an image whose source is set immediately.
func EagerImage(src, alt string) *Node {
	return &Node{Kind: KindImage, Src: src, Alt: alt}
}

// Button is a push button.
func Button(text string) *Node {
	return &Node{Kind: KindButton, Text: text}
}

// Input is a text input.
func Input(id, placeholder string) *Node {
	return &Node{Kind: KindInput, ID: id, Placeholder: placeholder}
}

// Slider is a range input in [min, max].
func Slider(id string, min, max int, value float64) *Node {
	return &Node{Kind: KindSlider, ID: id, Min: min, Max: max, Value: value}
}

// Nav is the sidebar navigation list.
func Nav(items ...*Node) *Node {
	return &Node{Kind: KindNav, Children: compact(items)}
}

// NavItem is one navigation entry.
func NavItem(key, label string, active bool) *Node {
	return &Node{Kind: KindNavItem, Text: label, Active: active, Data: map[string]string{"page": key}}
}

// WithID sets the element id.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithClass appends CSS classes.
func (n *Node) WithClass(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithData sets a data-* attribute.
func (n *Node) WithData(key, value string) *Node {
	if n.Data == nil {
		n.Data = make(map[string]string)
	}
	n.Data[key] = value
	return n
}

// WithAttr sets a plain attribute such as href or style.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// WithText sets the node's text content.
func (n *Node) WithText(text string) *Node {
	n.Text = text
	return n
}

// WithDataInt sets a numeric data-* attribute.
func (n *Node) WithDataInt(key string, value int) *Node {
	return n.WithData(key, strconv.Itoa(value))
}

// On binds an action to the node.
func (n *Node) On(action Action) *Node {
	if action.Trigger == "" {
		action.Trigger = TriggerClick
	}
	if action.Method == "" {
		action.Method = "GET"
	}
	n.Action = &action
	return n
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
