package view

// RootMargin is the forward margin used when deciding intersection.
const RootMargin = "100px 0px"

// Entry is one intersection observation.
type Entry struct {
	Target         *Node
	IsIntersecting bool
}

// Loader reveals lazy images the first time they intersect the viewport.
// Each image is revealed at most once.
type Loader struct {
	RootMargin string

	observed []*Node
}

// NewLoader creates a loader with the default margin.
func NewLoader() *Loader {
	return &Loader{RootMargin: RootMargin}
}

// Observe registers every lazy image under root and returns how many were
// added.
func (l *Loader) Observe(root *Node) int {
	added := 0
	root.Walk(func(n *Node) bool {
		if n.Kind == KindImage && n.Lazy && !l.isObserved(n) {
			l.observed = append(l.observed, n)
			added++
		}
		return true
	})
	return added
}

// Intersect reveals every observed target of an intersecting entry and
// stops observing it.
func (l *Loader) Intersect(entries []Entry) int {
	revealed := 0
	for _, e := range entries {
		if !e.IsIntersecting || !l.isObserved(e.Target) {
			continue
		}
		reveal(e.Target)
		l.unobserve(e.Target)
		revealed++
	}
	return revealed
}

// RevealFirst treats the first n observed images, in document order, as
// intersecting.
func (l *Loader) RevealFirst(n int) int {
	if n > len(l.observed) {
		n = len(l.observed)
	}
	if n <= 0 {
		return 0
	}

	entries := make([]Entry, n)
	for i, target := range l.observed[:n] {
		entries[i] = Entry{Target: target, IsIntersecting: true}
	}
	return l.Intersect(entries)
}

// Observed returns the number of images still waiting to be revealed.
func (l *Loader) Observed() int {
	return len(l.observed)
}

func reveal(n *Node) {
	n.Src = n.DataSrc
	n.DataSrc = ""
	n.Lazy = false
}

func (l *Loader) isObserved(n *Node) bool {
	for _, o := range l.observed {
		if o == n {
			return true
		}
	}
	return false
}

func (l *Loader) unobserve(n *Node) {
	for i, o := range l.observed {
		if o == n {
			l.observed = append(l.observed[:i], l.observed[i+1:]...)
			return
		}
	}
}
