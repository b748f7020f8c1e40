// Package bom tracks the parts produced while an assembly is built and
// summarizes them as a bill of materials.
//
// A Registry is owned by the caller and passed explicitly to the code that
// builds an assembly. Part constructors are created with Define: every call
// of the returned Constructor records exactly one use of its part before
// returning the geometry, regardless of where that geometry ends up being
// placed.
//
// Policies:
//   - Re-declaring a part overwrites its cost, currency and fields and keeps
//     its usage count.
//   - Using a part that was never declared fails with ErrUnknownPart.
//   - Counts accumulate across assembly passes until Reset is called.
//   - Summaries are sorted by currency, then by part name.
package bom
