package asttree

import "testing"

func TestBreadcrumb(t *testing.T) {
	inner := leaf("identifier", pt(0, 4), pt(0, 5))
	def := &fakeNode{
		kind:  "function_definition",
		start: pt(0, 0),
		end:   pt(1, 0),
		attrs: []Attr{{Name: "left", Value: NodeValue(inner)}},
	}
	root := &fakeNode{
		kind:  "module",
		start: pt(0, 0),
		end:   pt(1, 0),
		attrs: []Attr{{Name: "", Value: NodeValue(def)}},
	}

	tree := Build(root, Config{RootLabel: "demo.py"})
	deepest := tree.Root.Children[0].Children[0].Children[0]
	want := "demo.py > module > function_definition > identifier"
	if got := Breadcrumb(deepest); got != want {
		t.Fatalf("Breadcrumb = %q, want %q", got, want)
	}

	if got := Breadcrumb(nil); got != "" {
		t.Fatalf("Breadcrumb(nil) = %q, want empty", got)
	}

	if got := Breadcrumb(tree.Root); got != "demo.py" {
		t.Fatalf("Breadcrumb(root) = %q, want %q", got, "demo.py")
	}
}
