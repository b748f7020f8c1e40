package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazu/cadbom/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script> [out_dir]",
		Short: "Rebuild an assembly script whenever it changes",
		Long: `Run the script once, then run it again each time the file is saved.
Errors in the script are printed and watching continues. Stop with Ctrl-C.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args[0], outDirArg(args, 1))
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, path, outDir string) error {
	w, err := watcher.New(path, 0, a.log)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	build := a.script(path)
	rerun := func() {
		if err := a.run(cmd.OutOrStdout(), build, outDir); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		a.log.Info("assembly rebuilt", zap.String("script", path))
	}

	rerun()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			rerun()
		}
	}
}
