package kernel

import "testing"

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name          string
		mesh          Mesh
		wantVertices  int
		wantTriangles int
		wantEmpty     bool
	}{
		{"zero value", Mesh{}, 0, 0, true},
		{"vertices only", Mesh{Vertices: []float32{1, 2, 3}}, 1, 0, true},
		{
			"one triangle",
			Mesh{Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}},
			3, 1, false,
		},
		{
			"quad",
			Mesh{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 2, 2, 3, 0},
			},
			4, 2, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.wantVertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVertices)
			}
			if got := tt.mesh.TriangleCount(); got != tt.wantTriangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTriangles)
			}
			if got := tt.mesh.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := (&Mesh{}).Bounds(); ok {
		t.Error("empty mesh reported bounds")
	}

	m := &Mesh{Vertices: []float32{
		-15, -5, -2.5,
		15, 5, 2.5,
		0, 7, -4.8,
	}}
	min, max, ok := m.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if min != [3]float32{-15, -5, -4.8} {
		t.Errorf("min = %v", min)
	}
	if max != [3]float32{15, 7, 2.5} {
		t.Errorf("max = %v", max)
	}
}
