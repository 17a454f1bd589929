package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/trishajanath/altx-canvas/internal/analyzer"
	"github.com/trishajanath/altx-canvas/internal/canvas"
	"github.com/trishajanath/altx-canvas/internal/config"
	"github.com/trishajanath/altx-canvas/internal/observability"
	"github.com/trishajanath/altx-canvas/internal/project"
)

// newAnalyzeCmd creates the one-shot `analyze` command: load a project
// directory, run the detectors, and print the resulting pipeline snapshot
// as JSON.
func newAnalyzeCmd(getCfg func() *config.Config) *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [project-dir]",
		Short: "Analyze a project directory and print its security pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			logger := observability.GetLogger()

			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			loader := project.NewLoader(cfg.Analyzer, logger)
			files, err := loader.Load(root)
			if err != nil {
				return fmt.Errorf("failed to load project: %w", err)
			}

			res := analyzer.New(logger).Analyze(files)

			editor := canvas.NewEditor(cfg.Editor, logger)
			editor.SetGraph(res.Nodes, res.Edges, res.Checklist)

			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(editor.Serialize(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return analyzeCmd
}
