// Package csg defines the constructive solid geometry tree for cadbom.
// A tree is built from primitives (cube, cylinder), boolean combinators
// (union, difference, intersection) and spatial transforms (translate,
// rotate). Nodes are never mutated after construction; helpers that
// change a node return a copy.
package csg
