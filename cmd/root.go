package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/internal/config"
	"github.com/trishajanath/altx-canvas/internal/observability"
)

// NewRootCommand builds a fresh root command tree. Each invocation gets its
// own command and viper instance so flag state never leaks between runs.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "altx-canvas",
		Short: "Altx Canvas maps a codebase into a visual security pipeline.",
		Long: `Altx Canvas analyzes a project's source files for security middleware,
builds a data-flow pipeline graph from what it finds, and serves an
interactive editor for injecting, removing and configuring security stages.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "altx-canvas"})
				return err
			}
			cfg = loaded
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting altx-canvas", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	// Subcommands read the resolved config through the closure; it is set by
	// the time any RunE executes.
	getCfg := func() *config.Config { return cfg }
	rootCmd.AddCommand(newAnalyzeCmd(getCfg))
	rootCmd.AddCommand(newServeCmd(getCfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI with a signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		return err
	}
	return nil
}

// loadConfig layers an optional config file and ALTX_* environment variables
// over the built-in defaults.
func loadConfig(cfgFile string) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ALTX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults plus env vars are a complete config.
	}

	return config.NewConfigFromViper(v)
}
