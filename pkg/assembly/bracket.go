// Package assembly holds the built-in sample assembly: a doohickey bracket
// fastened with three M3 bolts and nuts.
package assembly

import (
	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/shopspring/decimal"
)

// Dimensions in mm.
const (
	HeadRadius   = 2.65
	HeadHeight   = 2.8
	NutHeight    = 2.3
	NutRadius    = 3.0
	M3Radius     = 1.4
	DoohickeyH   = 5.0
	HoleSpacing  = 10.0
	epsilon      = 0.01
	nutSides     = 6
	doohickeyLen = 30.0
	doohickeyW   = 10.0
)

// Part names as they appear in the bill of materials.
const (
	M3x16Bolt = "M3x16 Bolt"
	M3x12Bolt = "M3x12 Bolt"
	M3Nut     = "M3 Nut"
	Doohickey = "doohickey"
)

// Parts holds the part constructors of the bracket. Each call records one
// use in the registry the parts were defined in.
type Parts struct {
	M3x16     bom.Constructor
	M3x12     bom.Constructor
	Nut       bom.Constructor
	Doohickey bom.Constructor
}

// DefineParts declares the bracket's parts in r.
func DefineParts(r *bom.Registry) (*Parts, error) {
	var (
		p   Parts
		err error
	)
	p.M3x16, err = bom.Define(r, bom.Part{
		Name:     M3x16Bolt,
		UnitCost: decimal.RequireFromString("0.12"),
		Currency: "€",
		Fields:   map[string]any{"link": "http://example.io/M3x16", "leftover": 0},
	}, func() *csg.Node { return bolt(16) })
	if err != nil {
		return nil, err
	}

	p.M3x12, err = bom.Define(r, bom.Part{
		Name:     M3x12Bolt,
		UnitCost: decimal.RequireFromString("0.09"),
		Fields:   map[string]any{"leftover": 0},
	}, func() *csg.Node { return bolt(12) })
	if err != nil {
		return nil, err
	}

	p.Nut, err = bom.Define(r, bom.Part{
		Name:     M3Nut,
		UnitCost: decimal.RequireFromString("0.04"),
		Currency: "R$",
	}, nut)
	if err != nil {
		return nil, err
	}

	p.Doohickey, err = bom.Define(r, bom.Part{Name: Doohickey}, doohickey)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func head() *csg.Node {
	return csg.Cylinder(HeadHeight, HeadRadius)
}

// bolt is a cap head with a shank of the given length hanging below z=0.
func bolt(length float64) *csg.Node {
	return csg.Union(
		head(),
		csg.Translate(csg.V(0, 0, -length), csg.Cylinder(length, M3Radius)),
	)
}

func nut() *csg.Node {
	return csg.Difference(
		csg.Prism(NutHeight, NutRadius, nutSides),
		csg.Translate(csg.V(0, 0, -epsilon), csg.Cylinder(NutHeight+2*epsilon, M3Radius)),
	)
}

// The plate is centred on the origin, so the holes start half a plate below
// it and run clear through both faces. Offsetting them by epsilon alone
// would leave the lower half of each hole closed.
func doohickey() *csg.Node {
	hole := csg.Translate(csg.V(0, 0, -DoohickeyH/2-epsilon), csg.Cylinder(DoohickeyH+2*epsilon, M3Radius))
	return csg.Difference(
		csg.Cube(csg.V(doohickeyLen, doohickeyW, DoohickeyH), true),
		csg.Translate(csg.V(-HoleSpacing, 0, 0), hole),
		hole,
		csg.Translate(csg.V(HoleSpacing, 0, 0), hole),
	)
}

// Build places the parts: the doohickey at the origin, an M3x16 bolt in
// the centre hole, M3x12 bolts in the outer holes, and a nut under each.
func (p *Parts) Build() *csg.Node {
	top := DoohickeyH / 2
	under := -NutHeight - DoohickeyH/2
	return csg.Union(
		p.Doohickey(),
		csg.Translate(csg.V(-HoleSpacing, 0, top), p.M3x12()),
		csg.Translate(csg.V(0, 0, top), p.M3x16()),
		csg.Translate(csg.V(HoleSpacing, 0, top), p.M3x12()),
		csg.Translate(csg.V(-HoleSpacing, 0, under), p.Nut()),
		csg.Translate(csg.V(0, 0, under), p.Nut()),
		csg.Translate(csg.V(HoleSpacing, 0, under), p.Nut()),
	)
}

// Bracket declares the bracket's parts in r and builds the assembly once.
// Calling it again on the same registry adds another pass worth of usage.
func Bracket(r *bom.Registry) (*csg.Node, error) {
	p, err := DefineParts(r)
	if err != nil {
		return nil, err
	}
	return p.Build(), nil
}
