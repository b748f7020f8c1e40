package csg

import (
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindCube, "cube"},
		{KindCylinder, "cylinder"},
		{KindUnion, "union"},
		{KindDifference, "difference"},
		{KindIntersection, "intersection"},
		{KindTranslate, "translate"},
		{KindRotate, "rotate"},
		{Kind(99), "Kind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestDifferenceKeepsBaseFirst(t *testing.T) {
	base := Cube(V(1, 1, 1), false)
	cut := Cylinder(2, 0.5)
	d := Difference(base, cut, cut)
	if len(d.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(d.Children))
	}
	if d.Children[0] != base {
		t.Fatal("base must be the first child")
	}
}

func TestWithLabelCopies(t *testing.T) {
	orig := Cube(V(1, 1, 1), false)
	labeled := orig.WithLabel("block")
	if orig.Label != "" {
		t.Fatalf("original label mutated to %q", orig.Label)
	}
	if labeled.Label != "block" {
		t.Fatalf("labeled.Label = %q, want block", labeled.Label)
	}
}

func TestCountAndLabels(t *testing.T) {
	nut := Prism(2, 3, 6).WithLabel("nut")
	tree := Union(
		Translate(V(-1, 0, 0), nut),
		Translate(V(1, 0, 0), nut),
		Cube(V(5, 5, 1), true).WithLabel("plate"),
	)
	if got := Count(tree); got != 6 {
		t.Errorf("Count = %d, want 6", got)
	}
	labels := Labels(tree)
	if labels["nut"] != 2 || labels["plate"] != 1 {
		t.Errorf("Labels = %v", labels)
	}
}

func TestWalkPrunes(t *testing.T) {
	tree := Union(Translate(V(1, 0, 0), Cube(V(1, 1, 1), false)))
	var kinds []Kind
	Walk(tree, func(n *Node, depth int) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != KindTranslate
	})
	if len(kinds) != 2 {
		t.Fatalf("expected walk to stop below translate, visited %v", kinds)
	}
}

func TestVec3(t *testing.T) {
	v := V(1, 2, 3).Add(V(-1, -2, -3))
	if !v.IsZero() {
		t.Fatalf("expected zero vector, got %v", v)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tree    *Node
		wantErr string
	}{
		{"valid bolt", Union(Cylinder(2.8, 2.65), Translate(V(0, 0, -16), Cylinder(16, 1.4))), ""},
		{"nil tree", nil, "tree is empty"},
		{"flat cube", Cube(V(1, 0, 1), false), "non-positive size"},
		{"zero radius", Cylinder(1, 0), "non-positive radius"},
		{"two-sided prism", Prism(1, 1, 2), "segments must be 0 or at least 3"},
		{"empty union", Union(), "union has no children"},
		{"nil child", Union(Cube(V(1, 1, 1), false), nil), "child 1 is nil"},
		{"translate without child", &Node{Kind: KindTranslate, Data: TranslateData{}}, "exactly one child"},
		{"nested path", Union(Translate(V(0, 0, 0), Cube(V(0, 1, 1), false))), "union/translate/cube"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Err(tt.tree)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
