package theme

import (
	"reflect"
	"testing"
)

func TestApplyNormalizesColorAndSetsModeOnRoot(t *testing.T) {
	doc := NewDocument()
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", TargetRoot)

	got := doc.Root().List()
	want := []string{"dark", "zinc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("root classes = %v, want %v", got, want)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	doc := NewDocument()
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", TargetRoot)
	once := doc.Root().List()

	applier.Apply("Zinc", "dark", TargetRoot)
	twice := doc.Root().List()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected identical class sets, got %v then %v", once, twice)
	}
}

func TestApplyClearsPriorThemeClasses(t *testing.T) {
	doc := NewDocument()
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", TargetRoot)
	applier.Apply("Slate", "light", TargetRoot)

	root := doc.Root()
	for _, stale := range []string{"zinc", "dark"} {
		if root.Has(stale) {
			t.Fatalf("expected %q to be cleared, classes = %v", stale, root.List())
		}
	}
	want := []string{"light", "slate"}
	if got := root.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("root classes = %v, want %v", got, want)
	}
}

func TestApplyPreservesForeignClasses(t *testing.T) {
	doc := NewDocument()
	doc.Root().Add("layout-wide")
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", TargetRoot)
	applier.Apply("Slate", "light", TargetRoot)

	if !doc.Root().Has("layout-wide") {
		t.Fatalf("expected non-theme class to survive, classes = %v", doc.Root().List())
	}
}

func TestApplyToRegisteredNode(t *testing.T) {
	doc := NewDocument()
	panel := doc.Register("summary-panel")
	applier := NewApplier(doc)

	applier.Apply("Rose", "light", "summary-panel")

	want := []string{"light", "rose"}
	if got := panel.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("panel classes = %v, want %v", got, want)
	}
	if len(doc.Root().List()) != 0 {
		t.Fatalf("expected root untouched, got %v", doc.Root().List())
	}
}

func TestApplyUnresolvableTargetIsNoOp(t *testing.T) {
	doc := NewDocument()
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", "missing-node")

	if len(doc.Root().List()) != 0 {
		t.Fatalf("expected no classes applied, got %v", doc.Root().List())
	}
}

func TestApplyEmptyTargetSelectsRoot(t *testing.T) {
	doc := NewDocument()
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", "")

	if !doc.Root().Has("zinc") || !doc.Root().Has("dark") {
		t.Fatalf("expected root themed, got %v", doc.Root().List())
	}
}

func TestApplyTracksNodesIndependently(t *testing.T) {
	doc := NewDocument()
	panel := doc.Register("panel")
	applier := NewApplier(doc)

	applier.Apply("Zinc", "dark", TargetRoot)
	applier.Apply("Rose", "light", "panel")
	applier.Apply("Slate", "dark", TargetRoot)

	if panel.Has("slate") || !panel.Has("rose") {
		t.Fatalf("expected panel theme unchanged, got %v", panel.List())
	}
	if doc.Root().Has("zinc") {
		t.Fatalf("expected root re-themed, got %v", doc.Root().List())
	}
}
