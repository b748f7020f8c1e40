// Package tessellate evaluates a CSG tree with a geometry kernel and turns
// the resulting solid into a triangle mesh.
package tessellate

import (
	"fmt"

	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/kernel"
)

// Tessellate evaluates the tree rooted at n with k and meshes the result.
// The tree is read-only and never mutated.
func Tessellate(n *csg.Node, k kernel.Kernel) (*kernel.Mesh, error) {
	solid, err := Solidify(n, k)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed: %w", err)
	}
	mesh.Name = n.Label
	return mesh, nil
}

// Solidify evaluates the tree rooted at n into a single kernel solid.
func Solidify(n *csg.Node, k kernel.Kernel) (kernel.Solid, error) {
	if err := csg.Err(n); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return walkNode(n, k)
}

// walkNode recursively evaluates a node and its children.
func walkNode(n *csg.Node, k kernel.Kernel) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case csg.CubeData:
		return k.Box(data.Size.X, data.Size.Y, data.Size.Z, data.Center), nil

	case csg.CylinderData:
		s := k.Cylinder(data.Height, data.Radius, data.Segments)
		if data.Center {
			s = k.Translate(s, 0, 0, -data.Height/2)
		}
		return s, nil

	case csg.TranslateData:
		child, err := walkNode(n.Children[0], k)
		if err != nil {
			return nil, err
		}
		if data.Offset.IsZero() {
			return child, nil
		}
		return k.Translate(child, data.Offset.X, data.Offset.Y, data.Offset.Z), nil

	case csg.RotateData:
		child, err := walkNode(n.Children[0], k)
		if err != nil {
			return nil, err
		}
		if data.Angles.IsZero() {
			return child, nil
		}
		return k.Rotate(child, data.Angles.X, data.Angles.Y, data.Angles.Z), nil
	}

	switch n.Kind {
	case csg.KindUnion:
		return fold(n, k, k.Union)
	case csg.KindDifference:
		return fold(n, k, k.Difference)
	case csg.KindIntersection:
		return fold(n, k, k.Intersection)
	default:
		return nil, fmt.Errorf("tessellate: unsupported node %s with data %T", n.Kind, n.Data)
	}
}

// fold combines the children left to right: op(op(c0, c1), c2)...
// For a difference this subtracts every later child from the first.
func fold(n *csg.Node, k kernel.Kernel, op func(a, b kernel.Solid) kernel.Solid) (kernel.Solid, error) {
	var acc kernel.Solid
	for i, c := range n.Children {
		s, err := walkNode(c, k)
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", n.Kind, i, err)
		}
		if acc == nil {
			acc = s
			continue
		}
		acc = op(acc, s)
	}
	return acc, nil
}
