package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trishajanath/altx-canvas/internal/aigen"
	"github.com/trishajanath/altx-canvas/internal/analyzer"
	"github.com/trishajanath/altx-canvas/internal/canvas"
	"github.com/trishajanath/altx-canvas/internal/config"
	"github.com/trishajanath/altx-canvas/internal/observability"
	"github.com/trishajanath/altx-canvas/internal/project"
	"github.com/trishajanath/altx-canvas/internal/server"
)

// newServeCmd creates the `serve` command. It wires the analyzer, editor,
// animator and AI generator behind the HTTP/websocket server and, when a
// project directory is given, keeps the pipeline in sync with file changes.
func newServeCmd(getCfg func() *config.Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve [project-dir]",
		Short: "Serve the interactive pipeline editor",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getCfg()
			logger := observability.GetLogger()

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			an := analyzer.New(logger)
			editor := canvas.NewEditor(cfg.Editor, logger)
			animator := canvas.NewAnimator(editor, cfg.Editor, logger)
			generator := aigen.NewHTTPGenerator(cfg.AI, logger)
			srv := server.New(editor, animator, an, generator, cfg.Server, logger)

			g, ctx := errgroup.WithContext(ctx)

			// Seed the graph from the project directory and re-analyze on
			// every debounced change batch.
			if len(args) > 0 {
				root := args[0]
				loader := project.NewLoader(cfg.Analyzer, logger)

				files, err := loader.Load(root)
				if err != nil {
					return err
				}
				res := an.Analyze(files)
				editor.SetGraph(res.Nodes, res.Edges, res.Checklist)
				logger.Info("Initial analysis complete",
					zap.String("root", root),
					zap.Int("files", len(files)),
					zap.Int("nodes", len(res.Nodes)))

				watcher := project.NewWatcher(loader, root, cfg.Analyzer.WatchDebounce, func(files map[string]string) {
					res := an.Analyze(files)
					editor.SetGraph(res.Nodes, res.Edges, res.Checklist)
				}, logger)
				g.Go(func() error {
					if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				})
			}

			animator.Start(ctx)
			defer animator.Stop()

			g.Go(func() error { return srv.Run(ctx) })
			return g.Wait()
		},
	}

	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides config/env)")
	return serveCmd
}
