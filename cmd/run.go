package cmd

import (
	"fmt"
	"os"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/engine"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script> [out_dir]",
		Short: "Build an assembly script and print its bill of materials",
		Long: `Evaluate an assembly script, write the resulting OpenSCAD file, and
print the bill of materials.

Scripts declare parts with defpart and instantiate them with part; every
(part "name") call counts one use. The file is named after the script's
(assembly "name" ...) form.

Examples:
  cadbom run examples/bracket.zy
  cadbom run examples/bracket.zy out --format tsv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.OutOrStdout(), a.script(args[0]), outDirArg(args, 1))
		},
	}
}

// script returns a builder that evaluates the script at path.
func (a *app) script(path string) builder {
	eng := engine.NewEngine(a.log)
	return func(reg *bom.Registry) (*csg.Node, string, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading script: %w", err)
		}
		res, evalErrs, err := eng.Evaluate(string(src), reg)
		if err != nil {
			return nil, "", fmt.Errorf("evaluating %s: %w", path, err)
		}
		if len(evalErrs) > 0 {
			return nil, "", scriptError{path: path, errs: evalErrs}
		}
		if res.Root == nil {
			return nil, "", fmt.Errorf("%s declares no assembly", path)
		}
		return res.Root, res.Name, nil
	}
}

// scriptError reports the evaluation errors of one script.
type scriptError struct {
	path string
	errs []engine.EvalError
}

func (e scriptError) Error() string {
	msg := e.path
	for _, ee := range e.errs {
		msg += "\n  " + ee.Error()
	}
	return msg
}
