// Package theme derives presentation classes from theme preferences and
// applies them to a class-set document.
package theme

import (
	"sort"
	"sync"
)

// TargetRoot is the sentinel target identifier meaning the document root.
const TargetRoot = ":root"

// ClassSet holds the presentation classes attached to one node.
type ClassSet struct {
	mu      sync.Mutex
	classes map[string]struct{}
}

// NewClassSet builds a class set seeded with the given classes.
func NewClassSet(classes ...string) *ClassSet {
	set := &ClassSet{classes: make(map[string]struct{}, len(classes))}
	for _, class := range classes {
		set.classes[class] = struct{}{}
	}
	return set
}

// Add inserts a class. Adding an existing class is a no-op.
func (c *ClassSet) Add(class string) {
	if c == nil || class == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classes[class] = struct{}{}
}

// Remove deletes a class. Removing an absent class is a no-op.
func (c *ClassSet) Remove(class string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.classes, class)
}

// Has reports whether the class is present.
func (c *ClassSet) Has(class string) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.classes[class]
	return ok
}

// List returns the classes in sorted order.
func (c *ClassSet) List() []string {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.classes))
	for class := range c.classes {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Document models the presentation tree the console themes: a root node
// plus nodes addressable by identifier.
type Document struct {
	mu    sync.RWMutex
	root  *ClassSet
	nodes map[string]*ClassSet
}

// NewDocument builds an empty document with a root node.
func NewDocument() *Document {
	return &Document{
		root:  NewClassSet(),
		nodes: make(map[string]*ClassSet),
	}
}

// Root returns the document root node.
func (d *Document) Root() *ClassSet {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Register adds an addressable node and returns its class set. Registering
// an existing identifier returns the existing node.
func (d *Document) Register(id string) *ClassSet {
	if d == nil || id == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if node, ok := d.nodes[id]; ok {
		return node
	}
	node := NewClassSet()
	d.nodes[id] = node
	return node
}

// Lookup resolves a node by identifier.
func (d *Document) Lookup(id string) (*ClassSet, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	node, ok := d.nodes[id]
	return node, ok
}
