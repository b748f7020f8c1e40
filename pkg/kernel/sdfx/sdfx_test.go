package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/cadbom/pkg/kernel"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func assertBounds(t *testing.T, gotMin, gotMax, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(gotMin[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, gotMin[i], wantMin[i])
		}
		if math.Abs(gotMax[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, gotMax[i], wantMax[i])
		}
	}
}

func TestBoxCorner(t *testing.T) {
	k := New()
	min, max := k.Box(100, 50, 25, false).BoundingBox()
	assertBounds(t, min, max, [3]float64{0, 0, 0}, [3]float64{100, 50, 25}, 0.01)
}

func TestBoxCentered(t *testing.T) {
	k := New()
	min, max := k.Box(30, 10, 5, true).BoundingBox()
	assertBounds(t, min, max, [3]float64{-15, -5, -2.5}, [3]float64{15, 5, 2.5}, 0.01)
}

func TestCylinderStandsOnXY(t *testing.T) {
	k := New()
	min, max := k.Cylinder(16, 1.4, 0).BoundingBox()
	assertBounds(t, min, max, [3]float64{-1.4, -1.4, 0}, [3]float64{1.4, 1.4, 16}, 0.01)
}

func TestHexPrism(t *testing.T) {
	k := New(WithMeshCells(testCells))
	hex := k.Cylinder(2.3, 3, 6)
	min, max := hex.BoundingBox()
	if math.Abs(min[2]) > 0.01 || math.Abs(max[2]-2.3) > 0.01 {
		t.Errorf("z extent = [%f, %f], expected [0, 2.3]", min[2], max[2])
	}
	// The first vertex lies on +X, so the X extent reaches the circumradius.
	if math.Abs(max[0]-3) > 0.01 {
		t.Errorf("max x = %f, expected ~3", max[0])
	}
	mesh, err := k.ToMesh(hex)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("hex prism mesh is empty")
	}
}

func TestNgon(t *testing.T) {
	pts := ngon(6, 2)
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	for i, p := range pts {
		if r := math.Hypot(p.X, p.Y); math.Abs(r-2) > 1e-9 {
			t.Errorf("point %d radius = %f, want 2", i, r)
		}
	}
}

func TestDifference(t *testing.T) {
	k := New(WithMeshCells(testCells))

	box := k.Box(100, 100, 100, true)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Translate(k.Cylinder(120, 20, 0), 0, 0, -60)
	diff := k.Difference(box, cyl)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
	t.Logf("box triangles: %d, difference triangles: %d", boxMesh.TriangleCount(), diffMesh.TriangleCount())
}

func TestUnionBounds(t *testing.T) {
	k := New()
	u := k.Union(k.Box(50, 50, 50, false), k.Translate(k.Box(50, 50, 50, false), 30, 0, 0))
	min, max := u.BoundingBox()
	assertBounds(t, min, max, [3]float64{0, 0, 0}, [3]float64{80, 50, 50}, 0.01)
}

func TestTranslate(t *testing.T) {
	k := New()
	translated := k.Translate(k.Box(10, 10, 10, true), 100, 200, 300)
	min, max := translated.BoundingBox()
	assertBounds(t, min, max, [3]float64{95, 195, 295}, [3]float64{105, 205, 305}, 0.5)
}

func TestIntersection(t *testing.T) {
	k := New(WithMeshCells(testCells))
	inter := k.Intersection(k.Box(100, 100, 100, true), k.Translate(k.Box(100, 100, 100, true), 50, 0, 0))
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
	t.Logf("intersection triangle count: %d", mesh.TriangleCount())
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10, true)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestToTrianglesFromMesh(t *testing.T) {
	m := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
	tris := toTriangles(m)
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	if tris[0][1].X != 1 || tris[0][2].Y != 1 {
		t.Errorf("triangle = %v", *tris[0])
	}
	if n := tris[0].Normal(); math.Abs(n.Z-1) > 1e-9 {
		t.Errorf("normal = %v, want +Z", n)
	}
}

func TestSaveSTL(t *testing.T) {
	k := New(WithMeshCells(testCells))
	mesh, err := k.ToMesh(k.Box(10, 10, 10, true))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "box.stl")
	if err := k.SaveSTL(path, mesh); err != nil {
		t.Fatalf("SaveSTL() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	if want := int64(84 + 50*mesh.TriangleCount()); info.Size() != want {
		t.Errorf("size = %d, want %d", info.Size(), want)
	}

	if err := k.SaveSTL(filepath.Join(t.TempDir(), "missing", "box.stl"), mesh); err == nil {
		t.Error("expected error for missing directory")
	}
}
