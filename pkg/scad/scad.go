// Package scad serializes a csg tree as OpenSCAD source. It only writes
// the description; compiling or previewing it is left to OpenSCAD.
package scad

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chazu/cadbom/pkg/csg"
)

// Ext is the file extension of OpenSCAD sources.
const Ext = ".scad"

// DefaultName is used by WriteFile when no file name is given.
const DefaultName = "assembly"

const header = "// Generated by cadbom\n\n"

// ErrInvalidName is returned for file names that would leave the output
// directory.
var ErrInvalidName = errors.New("invalid file name")

// CheckName reports whether name can be used as an output file name. Names
// holding a path separator or a ".." element are rejected.
func CheckName(name string) error {
	if strings.ContainsAny(name, `/\`) || name == "." || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Render returns the OpenSCAD source for the tree rooted at n.
func Render(n *csg.Node) (string, error) {
	if err := csg.Err(n); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(header)
	writeNode(&b, n, 0)
	return b.String(), nil
}

// WriteFile renders n and writes it to dir/name.scad, creating dir if
// needed. An empty dir means the working directory. It returns the
// absolute path of the written file.
func WriteFile(n *csg.Node, dir, name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	src, err := Render(n)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if name == "" {
		name = DefaultName
	}
	if filepath.Ext(name) != Ext {
		name += Ext
	}
	path := filepath.Join(absDir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		return "", fmt.Errorf("failed to write scad file: %w", err)
	}
	return path, nil
}

func writeNode(b *strings.Builder, n *csg.Node, depth int) {
	indent := strings.Repeat("\t", depth)
	if n.Label != "" {
		fmt.Fprintf(b, "%s// part: %s\n", indent, n.Label)
	}

	switch d := n.Data.(type) {
	case csg.CubeData:
		fmt.Fprintf(b, "%scube(size = %s", indent, vec(d.Size))
		if d.Center {
			b.WriteString(", center = true")
		}
		b.WriteString(");\n")
		return
	case csg.CylinderData:
		fmt.Fprintf(b, "%scylinder(h = %s, r = %s", indent, num(d.Height), num(d.Radius))
		if d.Center {
			b.WriteString(", center = true")
		}
		if d.Segments > 0 {
			fmt.Fprintf(b, ", $fn = %d", d.Segments)
		}
		b.WriteString(");\n")
		return
	case csg.TranslateData:
		fmt.Fprintf(b, "%stranslate(v = %s)", indent, vec(d.Offset))
	case csg.RotateData:
		fmt.Fprintf(b, "%srotate(a = %s)", indent, vec(d.Angles))
	default:
		fmt.Fprintf(b, "%s%s()", indent, n.Kind)
	}

	b.WriteString(" {\n")
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func num(f float64) string {
	if f == 0 {
		// Avoids "-0" for negated zero offsets.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func vec(v csg.Vec3) string {
	return "[" + num(v.X) + ", " + num(v.Y) + ", " + num(v.Z) + "]"
}
