package view

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes the HTML for tree to w.
func Render(w io.Writer, tree *Node) error {
	if tree == nil {
		return nil
	}
	for _, n := range toHTML(tree) {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// RenderDocument writes a full HTML document with a doctype.
func RenderDocument(w io.Writer, tree *Node) error {
	if err := html.Render(w, &html.Node{Type: html.DoctypeNode, Data: "html"}); err != nil {
		return err
	}
	return Render(w, tree)
}

// RenderString renders tree to a string.
func RenderString(tree *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toHTML converts n to html nodes. Fragments yield their children.
func toHTML(n *Node) []*html.Node {
	if n.Kind == KindFragment {
		var out []*html.Node
		for _, c := range n.Children {
			out = append(out, toHTML(c)...)
		}
		return out
	}

	el := element(n)
	if n.Text != "" && !isVoid(el.DataAtom) {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		for _, h := range toHTML(c) {
			el.AppendChild(h)
		}
	}
	return []*html.Node{el}
}

func element(n *Node) *html.Node {
	var (
		tag     atom.Atom
		name    string
		classes []string
		attrs   []html.Attribute
	)

	switch n.Kind {
	case KindHeading:
		tag = atom.H2
		classes = append(classes, "section-heading")
	case KindTitle:
		tag = atom.H1
		classes = append(classes, "page-title")
	case KindText:
		tag = atom.P
	case KindGrid:
		tag = atom.Div
		classes = append(classes, "dashboard")
	case KindCard:
		tag = atom.Div
		classes = append(classes, "card")
	case KindCardInfo:
		tag = atom.Div
		classes = append(classes, "card-info")
	case KindImage:
		tag = atom.Img
		if n.Lazy {
			classes = append(classes, "lazy")
			attrs = append(attrs, attr("data-src", n.DataSrc))
		} else {
			attrs = append(attrs, attr("src", n.Src))
		}
		attrs = append(attrs, attr("alt", n.Alt))
	case KindButton:
		tag = atom.Button
		attrs = append(attrs, attr("type", "button"))
	case KindInput:
		tag = atom.Input
		attrs = append(attrs, attr("type", "text"))
		if n.Placeholder != "" {
			attrs = append(attrs, attr("placeholder", n.Placeholder))
		}
		attrs = append(attrs, attr("autocomplete", "off"))
	case KindSlider:
		tag = atom.Input
		attrs = append(attrs,
			attr("type", "range"),
			attr("min", strconv.Itoa(n.Min)),
			attr("max", strconv.Itoa(n.Max)),
			attr("value", strconv.FormatFloat(n.Value, 'f', -1, 64)),
		)
	case KindNav:
		tag = atom.Ul
		classes = append(classes, "nav")
	case KindNavItem:
		tag = atom.Li
		classes = append(classes, "nav-item")
		if n.Active {
			classes = append(classes, "active")
		}
	default:
		tag = atom.Lookup([]byte(n.Tag))
		if tag == 0 {
			if n.Tag != "" {
				name = n.Tag
			} else {
				tag = atom.Div
			}
		}
	}
	if name == "" {
		name = tag.String()
	}

	el := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: name}

	if n.ID != "" {
		el.Attr = append(el.Attr, attr("id", n.ID))
	}
	classes = append(classes, n.Classes...)
	if len(classes) > 0 {
		el.Attr = append(el.Attr, attr("class", strings.Join(classes, " ")))
	}
	el.Attr = append(el.Attr, attrs...)
	el.Attr = append(el.Attr, sortedAttrs("", n.Attrs)...)
	el.Attr = append(el.Attr, sortedAttrs("data-", n.Data)...)
	if n.Action != nil {
		el.Attr = append(el.Attr, actionAttrs(n.Action)...)
	}
	return el
}

func sortedAttrs(prefix string, data map[string]string) []html.Attribute {
	if len(data) == 0 {
		return nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, attr(prefix+k, data[k]))
	}
	return out
}

func actionAttrs(a *Action) []html.Attribute {
	out := []html.Attribute{
		attr("data-action", a.URL),
		attr("data-method", a.Method),
		attr("data-trigger", a.Trigger),
	}
	if a.Target != "" {
		out = append(out, attr("data-target", a.Target))
	}
	if a.StopPropagation {
		out = append(out, attr("data-stop-propagation", "true"))
	}
	return out
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Img, atom.Input, atom.Br, atom.Hr, atom.Meta, atom.Link:
		return true
	}
	return false
}
