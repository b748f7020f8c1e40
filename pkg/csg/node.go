package csg

import "fmt"

// Kind enumerates the types of nodes in a CSG tree.
type Kind int

const (
	KindCube         Kind = iota // axis-aligned box
	KindCylinder                 // cylinder (or n-gon prism) along Z
	KindUnion                    // boolean union of children
	KindDifference               // first child minus the rest
	KindIntersection             // boolean intersection of children
	KindTranslate                // translation of the single child
	KindRotate                   // Euler rotation of the single child
)

func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindCylinder:
		return "cylinder"
	case KindUnion:
		return "union"
	case KindDifference:
		return "difference"
	case KindIntersection:
		return "intersection"
	case KindTranslate:
		return "translate"
	case KindRotate:
		return "rotate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsBoolean reports whether the kind combines several children.
func (k Kind) IsBoolean() bool {
	return k == KindUnion || k == KindDifference || k == KindIntersection
}

// IsTransform reports whether the kind wraps exactly one child.
func (k Kind) IsTransform() bool {
	return k == KindTranslate || k == KindRotate
}

// Node is the fundamental element of the CSG tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	Label    string  `json:"label,omitempty"` // part name for part roots, empty otherwise
	Children []*Node `json:"children,omitempty"`
	Data     Data    `json:"data,omitempty"`
}

// Data is the interface for kind-specific node payloads.
type Data interface {
	csgData() // marker method restricting implementations to this package
}

// CubeData is the payload of a KindCube node.
type CubeData struct {
	Size   Vec3 `json:"size"`
	Center bool `json:"center"` // centred on the origin instead of min-corner at the origin
}

func (CubeData) csgData() {}

// CylinderData is the payload of a KindCylinder node. The base sits on the
// XY plane unless Center is set. Segments > 0 fixes the facet count, which
// turns the cylinder into a regular prism (6 gives a hex nut).
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
	Center   bool    `json:"center"`
}

func (CylinderData) csgData() {}

// TranslateData is the payload of a KindTranslate node.
type TranslateData struct {
	Offset Vec3 `json:"offset"`
}

func (TranslateData) csgData() {}

// RotateData is the payload of a KindRotate node. Angles are Euler angles in degrees.
type RotateData struct {
	Angles Vec3 `json:"angles"`
}

func (RotateData) csgData() {}

// Cube returns a box primitive.
func Cube(size Vec3, center bool) *Node {
	return &Node{Kind: KindCube, Data: CubeData{Size: size, Center: center}}
}

// Cylinder returns a cylinder primitive of height h and radius r.
func Cylinder(h, r float64) *Node {
	return &Node{Kind: KindCylinder, Data: CylinderData{Height: h, Radius: r}}
}

// Prism returns a regular n-sided prism of height h and circumradius r.
func Prism(h, r float64, sides int) *Node {
	return &Node{Kind: KindCylinder, Data: CylinderData{Height: h, Radius: r, Segments: sides}}
}

// Union returns the union of the given nodes.
func Union(children ...*Node) *Node {
	return &Node{Kind: KindUnion, Children: children}
}

// Difference returns base with every cut removed.
func Difference(base *Node, cuts ...*Node) *Node {
	children := make([]*Node, 0, len(cuts)+1)
	children = append(children, base)
	children = append(children, cuts...)
	return &Node{Kind: KindDifference, Children: children}
}

// Intersection returns the intersection of the given nodes.
func Intersection(children ...*Node) *Node {
	return &Node{Kind: KindIntersection, Children: children}
}

// Translate moves child by offset.
func Translate(offset Vec3, child *Node) *Node {
	return &Node{Kind: KindTranslate, Children: []*Node{child}, Data: TranslateData{Offset: offset}}
}

// Rotate rotates child by Euler angles in degrees (X, then Y, then Z).
func Rotate(angles Vec3, child *Node) *Node {
	return &Node{Kind: KindRotate, Children: []*Node{child}, Data: RotateData{Angles: angles}}
}

// WithLabel returns a shallow copy of n carrying the given label.
func (n *Node) WithLabel(label string) *Node {
	c := *n
	c.Label = label
	return &c
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn prunes the subtree.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Labels returns how many times each label occurs in the tree.
// Labels mark part roots, so this is a geometric placement count.
func Labels(n *Node) map[string]int {
	out := make(map[string]int)
	Walk(n, func(c *Node, _ int) bool {
		if c.Label != "" {
			out[c.Label]++
		}
		return true
	})
	return out
}
