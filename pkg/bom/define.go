package bom

import "github.com/chazu/cadbom/pkg/csg"

// Constructor builds one instance of a part's geometry.
type Constructor func() *csg.Node

// Define declares p in r and wraps build so that each call records one use
// of p before returning the geometry. The returned geometry is labeled with
// the part name.
func Define(r *Registry, p Part, build Constructor) (Constructor, error) {
	if err := r.Register(p); err != nil {
		return nil, err
	}
	name := p.Name
	return func() *csg.Node {
		// The entry exists: Define registered it and entries are never removed.
		r.entries[name].count++
		return build().WithLabel(name)
	}, nil
}

// MustDefine is like Define but panics on an invalid part. It is intended
// for parts declared with literal values.
func MustDefine(r *Registry, p Part, build Constructor) Constructor {
	c, err := Define(r, p, build)
	if err != nil {
		panic(err)
	}
	return c
}
