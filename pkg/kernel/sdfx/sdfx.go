// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/cadbom/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var (
	_ kernel.Kernel    = (*Kernel)(nil)
	_ kernel.STLWriter = (*Kernel)(nil)
)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	meshCells int
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithMeshCells sets the number of marching cubes cells along the longest
// bounding box axis. Values below 1 keep the default.
func WithMeshCells(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.meshCells = n
		}
	}
}

// New returns a new Kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{meshCells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions. sdf.Box3D centers the box at
// the origin; unless center is set the box is shifted so its minimum corner
// sits at the origin, matching OpenSCAD's cube().
func (k *Kernel) Box(x, y, z float64, center bool) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	if center {
		return wrap(s)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder standing on the XY plane. A positive segment
// count produces a regular prism with that many sides, which is how
// OpenSCAD's $fn is used for hex nuts; otherwise the surface is smooth.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	var s sdf.SDF3
	if segments >= 3 {
		poly, err := sdf.Polygon2D(ngon(segments, radius))
		if err != nil {
			panic(fmt.Sprintf("sdfx.Polygon2D: %v", err))
		}
		s = sdf.Extrude3D(poly, height)
	} else {
		c, err := sdf.Cylinder3D(height, radius, 0)
		if err != nil {
			panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
		}
		s = c
	}
	// Both constructors center on Z.
	return wrap(sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2})))
}

// ngon returns the vertices of a regular polygon with n sides inscribed in a
// circle of the given radius, the first vertex on the +X axis.
func ngon(n int, radius float64) []v2.Vec {
	pts := make([]v2.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	vertices := make([]float32, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}
	return &kernel.Mesh{Vertices: vertices, Indices: indices}, nil
}

// SaveSTL writes m to path as a binary STL. Facet normals are recomputed
// from the winding.
func (k *Kernel) SaveSTL(path string, m *kernel.Mesh) error {
	if err := render.SaveSTL(path, toTriangles(m)); err != nil {
		return fmt.Errorf("writing stl %s: %w", path, err)
	}
	return nil
}

// toTriangles rebuilds sdfx triangles from a flat mesh.
func toTriangles(m *kernel.Mesh) []*sdf.Triangle3 {
	n := m.TriangleCount()
	tris := make([]*sdf.Triangle3, 0, n)
	for t := 0; t < n; t++ {
		var tri sdf.Triangle3
		for j := 0; j < 3; j++ {
			i := int(m.Indices[t*3+j]) * 3
			tri[j] = v3.Vec{
				X: float64(m.Vertices[i]),
				Y: float64(m.Vertices[i+1]),
				Z: float64(m.Vertices[i+2]),
			}
		}
		tris = append(tris, &tri)
	}
	return tris
}
