package csg

import (
	"fmt"
	"strings"
)

// ValidationError describes a single structural problem in a CSG tree.
type ValidationError struct {
	Path    string // slash-separated kinds from the root, e.g. "union/translate/cube"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the tree rooted at n and returns every problem found.
// An empty slice means the tree can be rendered. Validate never mutates the tree.
func Validate(n *Node) []ValidationError {
	if n == nil {
		return []ValidationError{{Message: "tree is empty"}}
	}
	var errs []ValidationError
	validateNode(n, nil, &errs)
	return errs
}

// Err folds the findings of Validate into a single error, or nil.
func Err(n *Node) error {
	errs := Validate(n)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid geometry: %s", strings.Join(msgs, "; "))
}

func validateNode(n *Node, path []string, errs *[]ValidationError) {
	path = append(path, n.Kind.String())
	fail := func(format string, args ...any) {
		*errs = append(*errs, ValidationError{
			Path:    strings.Join(path, "/"),
			Message: fmt.Sprintf(format, args...),
		})
	}

	switch n.Kind {
	case KindCube:
		d, ok := n.Data.(CubeData)
		if !ok {
			fail("unexpected data type %T", n.Data)
			return
		}
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			fail("non-positive size %v", d.Size)
		}
	case KindCylinder:
		d, ok := n.Data.(CylinderData)
		if !ok {
			fail("unexpected data type %T", n.Data)
			return
		}
		if d.Height <= 0 {
			fail("non-positive height %g", d.Height)
		}
		if d.Radius <= 0 {
			fail("non-positive radius %g", d.Radius)
		}
		if d.Segments != 0 && d.Segments < 3 {
			fail("segments must be 0 or at least 3, got %d", d.Segments)
		}
	case KindUnion, KindDifference, KindIntersection:
		if len(n.Children) == 0 {
			fail("%s has no children", n.Kind)
		}
	case KindTranslate, KindRotate:
		if len(n.Children) != 1 {
			fail("%s needs exactly one child, got %d", n.Kind, len(n.Children))
		}
		switch n.Data.(type) {
		case TranslateData, RotateData:
		default:
			fail("unexpected data type %T", n.Data)
		}
	default:
		fail("unknown node kind")
		return
	}

	for i, c := range n.Children {
		if c == nil {
			fail("child %d is nil", i)
			continue
		}
		validateNode(c, path, errs)
	}
}
