package theme

import (
	"strings"
	"sync"
)

// Applier applies exactly one color class and one mode class to a
// presentation node, clearing whatever theme classes it applied before.
type Applier struct {
	doc *Document

	mu      sync.Mutex
	applied map[*ClassSet][]string
}

// NewApplier builds an applier over the given document.
func NewApplier(doc *Document) *Applier {
	return &Applier{
		doc:     doc,
		applied: make(map[*ClassSet][]string),
	}
}

// Apply sets the node's theme to (color, mode). The color is normalized to
// lowercase. Previously applied theme classes are removed first, so
// re-applying the same pair is idempotent and switching pairs never
// accumulates classes.
//
// An empty target or TargetRoot selects the document root; an identifier
// that resolves to no node makes Apply a silent no-op.
func (a *Applier) Apply(color, mode, target string) {
	if a == nil || a.doc == nil {
		return
	}

	node := a.resolve(target)
	if node == nil {
		return
	}

	colorClass := strings.ToLower(strings.TrimSpace(color))
	modeClass := strings.ToLower(strings.TrimSpace(mode))

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, class := range a.applied[node] {
		node.Remove(class)
	}

	var applied []string
	if colorClass != "" {
		node.Add(colorClass)
		applied = append(applied, colorClass)
	}
	if modeClass != "" {
		node.Add(modeClass)
		applied = append(applied, modeClass)
	}
	a.applied[node] = applied
}

func (a *Applier) resolve(target string) *ClassSet {
	if target == "" || target == TargetRoot {
		return a.doc.Root()
	}
	node, ok := a.doc.Lookup(target)
	if !ok {
		return nil
	}
	return node
}
