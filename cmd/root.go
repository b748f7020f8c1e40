// Package cmd implements the cadbom command line.
package cmd

import (
	"fmt"
	"io"

	"github.com/chazu/cadbom/pkg/assembly"
	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/config"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// flags holds the values of the persistent flags.
type flags struct {
	cfgFile string
	stl     bool
	catalog string
	format  string
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags flags
	cfg   config.Config
	log   *zap.Logger
}

// newRootCmd builds the command tree. Each call returns independent state.
func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "cadbom [out_dir]",
		Short: "Build a bolted bracket and print its bill of materials",
		Long: `Build the sample doohickey bracket, write it as an OpenSCAD file, and
print a bill of materials listing every part, how many were used, and
what they cost per currency.

The SCAD file goes to out_dir, or the current directory when omitted.`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.OutOrStdout(), bracket, outDirArg(args, 0))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.flags.cfgFile, "config", "c", "",
		"config file (default: .cadbom/config.yaml, then ~/.config/cadbom/config.yaml)")
	pf.BoolVar(&a.flags.stl, "stl", false,
		"also mesh the assembly and write an STL file")
	pf.StringVar(&a.flags.catalog, "catalog", "",
		"YAML price catalog applied after the assembly is built")
	pf.StringVarP(&a.flags.format, "format", "f", "",
		"report format: text, tsv, csv or both")

	rootCmd.AddCommand(
		newRunCmd(a),
		newWatchCmd(a),
		newInitCmd(),
	)
	return rootCmd
}

// setup loads the config, applies flag overrides, and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, used, err := config.Load(a.flags.cfgFile)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("stl") {
		cfg.STL = a.flags.stl
	}
	if fs.Changed("catalog") {
		cfg.Catalog = a.flags.catalog
	}
	if fs.Changed("format") {
		cfg.Format = a.flags.format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.log.Debug("config loaded", zap.String("file", used), zap.String("format", cfg.Format))
	return nil
}

// bracket builds the built-in sample assembly.
func bracket(reg *bom.Registry) (*csg.Node, string, error) {
	root, err := assembly.Bracket(reg)
	return root, "", err
}

func outDirArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// Run executes the command tree with explicit arguments and output,
// for embedding and tests.
func Run(args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
