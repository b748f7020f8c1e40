package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/config"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/kernel/sdfx"
	"github.com/chazu/cadbom/pkg/report"
	"github.com/chazu/cadbom/pkg/scad"
	"github.com/chazu/cadbom/pkg/tessellate"
	"go.uber.org/zap"
)

// builder produces an assembly, recording its part usage in reg. The
// returned name, when non-empty, replaces the configured file name.
type builder func(reg *bom.Registry) (*csg.Node, string, error)

// run performs one full pass: build, price, write geometry, report.
func (a *app) run(w io.Writer, build builder, outDir string) error {
	// Step 1: Build the assembly into a fresh registry.
	reg := bom.NewRegistry(
		bom.WithLogger(a.log),
		bom.WithDefaultCurrency(a.cfg.DefaultCurrency),
	)
	root, name, err := build(reg)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("no assembly was built")
	}
	if name == "" {
		name = a.cfg.Name
	}

	// Step 2: Apply catalog prices over the declared ones.
	if a.cfg.Catalog != "" {
		parts, err := bom.LoadCatalog(a.cfg.Catalog)
		if err != nil {
			return err
		}
		if err := reg.Apply(parts); err != nil {
			return fmt.Errorf("applying catalog %s: %w", a.cfg.Catalog, err)
		}
		a.log.Debug("catalog applied", zap.String("path", a.cfg.Catalog), zap.Int("parts", len(parts)))
	}

	// Step 3: Write the geometry.
	if outDir == "" {
		outDir = a.cfg.OutputDir
	}
	path, err := scad.WriteFile(root, outDir, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "SCAD file written to:\n%s\n\n", path)

	if a.cfg.STL {
		stlPath, err := a.writeSTL(root, filepath.Dir(path), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "STL file written to:\n%s\n\n", stlPath)
	}

	// Step 4: Report.
	return a.report(w, reg.Summarize())
}

func (a *app) writeSTL(root *csg.Node, dir, name string) (string, error) {
	k := sdfx.New(sdfx.WithMeshCells(a.cfg.MeshCells))
	mesh, err := tessellate.Tessellate(root, k)
	if err != nil {
		return "", fmt.Errorf("meshing %s: %w", name, err)
	}
	if mesh.IsEmpty() {
		return "", fmt.Errorf("meshing %s: no triangles at mesh_cells %d", name, a.cfg.MeshCells)
	}
	path := filepath.Join(dir, name+".stl")
	if err := k.SaveSTL(path, mesh); err != nil {
		return "", err
	}
	min, max, _ := mesh.Bounds()
	a.log.Info("mesh written",
		zap.String("path", path),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Float32s("min", min[:]),
		zap.Float32s("max", max[:]),
	)
	return path, nil
}

func (a *app) report(w io.Writer, s bom.Summary) error {
	opts := report.Options{Headers: a.cfg.Headers, Styled: true}

	switch a.cfg.Format {
	case config.FormatText:
		return report.Text(w, s, opts)
	case config.FormatTSV:
		return report.Delimited(w, s, opts)
	case config.FormatCSV:
		opts.Comma = ','
		return report.Delimited(w, s, opts)
	case config.FormatBoth:
		if err := report.Text(w, s, opts); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\nOr, Spreadsheet-ready TSV:\n\n"); err != nil {
			return err
		}
		return report.Delimited(w, s, opts)
	}
	return fmt.Errorf("unknown format %q", a.cfg.Format)
}
