// Package kernel is the boundary between cadbom's csg trees and a solid
// modelling library. tessellate walks a tree against a Kernel; the sdfx
// subpackage is the implementation the CLI uses.
package kernel

// Solid is a kernel-specific solid. Only its bounds are visible outside
// the kernel.
type Solid interface {
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids with OpenSCAD placement: boxes sit on their minimum
// corner unless centred, cylinders stand on the XY plane.
type Kernel interface {
	Box(x, y, z float64, center bool) Solid
	Cylinder(height, radius float64, segments int) Solid // segments > 0 gives a regular prism

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	ToMesh(s Solid) (*Mesh, error)
}

// STLWriter stores a mesh as an STL file.
type STLWriter interface {
	SaveSTL(path string, m *Mesh) error
}

// Mesh is an indexed triangle mesh of one assembly.
type Mesh struct {
	Name     string    // label of the csg tree it was built from
	Vertices []float32 // x, y, z per vertex
	Indices  []uint32  // three vertex indices per triangle
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles to write.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Bounds returns the axis-aligned extent of the vertices. ok is false when
// the mesh has none.
func (m *Mesh) Bounds() (min, max [3]float32, ok bool) {
	if len(m.Vertices) < 3 {
		return min, max, false
	}
	copy(min[:], m.Vertices[:3])
	copy(max[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max, true
}
