package assembly

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/report"
	"github.com/chazu/cadbom/pkg/scad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketBOM(t *testing.T) {
	r := bom.NewRegistry()
	root, err := Bracket(r)
	require.NoError(t, err)
	require.NoError(t, csg.Err(root))

	s := r.Summarize()
	assert.Equal(t, 1, s.Quantity(M3x16Bolt))
	assert.Equal(t, 2, s.Quantity(M3x12Bolt))
	assert.Equal(t, 3, s.Quantity(M3Nut))
	assert.Equal(t, 1, s.Quantity(Doohickey))
	assert.Len(t, s.Rows, 4)

	// Every constructor call produced exactly one labeled subtree.
	labels := csg.Labels(root)
	for _, row := range s.Rows {
		assert.Equal(t, row.Quantity, labels[row.Name], row.Name)
	}
}

func TestBracketTotals(t *testing.T) {
	r := bom.NewRegistry()
	_, err := Bracket(r)
	require.NoError(t, err)

	want := map[string]string{"€": "0.12", "US$": "0.18", "R$": "0.12"}
	s := r.Summarize()
	for cur, amt := range want {
		got, ok := s.TotalFor(cur)
		require.True(t, ok, cur)
		assert.Equal(t, amt, got.StringFixed(2), cur)
	}
}

func TestBuildTwiceAccumulates(t *testing.T) {
	r := bom.NewRegistry()
	p, err := DefineParts(r)
	require.NoError(t, err)

	p.Build()
	p.Build()
	assert.Equal(t, 6, r.Count(M3Nut))
	assert.Equal(t, 4, r.Count(M3x12Bolt))

	r.Reset()
	p.Build()
	assert.Equal(t, 3, r.Count(M3Nut))
	assert.Equal(t, 1, r.Count(M3x16Bolt))
}

func TestBracketRedefinitionKeepsCounts(t *testing.T) {
	r := bom.NewRegistry()
	_, err := Bracket(r)
	require.NoError(t, err)
	_, err = Bracket(r)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count(M3x16Bolt))
	assert.Equal(t, 4, r.Len())
}

func TestBracketRenders(t *testing.T) {
	r := bom.NewRegistry()
	root, err := Bracket(r)
	require.NoError(t, err)

	src, err := scad.Render(root)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(src, "// part: M3 Nut"))
	assert.Equal(t, 3, strings.Count(src, "$fn = 6"))
	assert.Contains(t, src, "cube(size = [30, 10, 5], center = true);")
	assert.Contains(t, src, "translate(v = [0, 0, -4.8])")

	var tsv bytes.Buffer
	require.NoError(t, report.Delimited(&tsv, r.Summarize(), report.Options{Headers: report.DefaultHeaders}))
	assert.Contains(t, tsv.String(), "M3x16 Bolt\t1\t€ 0.12\t€ 0.12\thttp://example.io/M3x16\t0")
}

func TestDoohickeyHolesCutThroughPlate(t *testing.T) {
	d := doohickey()
	require.Equal(t, csg.KindDifference, d.Kind)
	require.Len(t, d.Children, 4)

	plate := d.Children[0].Data.(csg.CubeData)
	require.True(t, plate.Center)

	hole := d.Children[2]
	require.Equal(t, csg.KindTranslate, hole.Kind)
	bottom := hole.Data.(csg.TranslateData).Offset.Z
	cyl := hole.Children[0].Data.(csg.CylinderData)

	assert.Less(t, bottom, -plate.Size.Z/2, "hole must open on the bottom face")
	assert.Greater(t, bottom+cyl.Height, plate.Size.Z/2, "hole must open on the top face")
}
