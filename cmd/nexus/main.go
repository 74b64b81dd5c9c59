package main

import (
	"context"
	"fmt"
	"os"

	"nexus/internal/catalog"
	"nexus/internal/config"
	"nexus/internal/logging"
	"nexus/internal/viewer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath  string
	catalogFlag string
	verbose     bool
	noViewer    bool

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus Games - browse and play an embedded game library",
	Long: `Nexus Games loads a catalog of browser games, lets you search and filter it
by category, and opens the selected game in an embedded viewer window.

Run without arguments to start the interactive browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive browser owns the terminal; it logs to files only.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAudit()
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/nexus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "catalog location: URL, JSON file, or sqlite:// database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noViewer, "no-viewer", false, "do not launch the embedded viewer")

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "title substring to match")
	listCmd.Flags().StringVar(&listCategory, "category", "All", "category filter")
	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "list featured games only")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	rootCmd.AddCommand(listCmd, playCmd, categoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file, flags and environment, then sets up
// file logging.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if catalogFlag != "" {
		cfg.Catalog.Source = catalogFlag
	}
	if noViewer {
		cfg.Viewer.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Initialize(cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if err := logging.InitAudit(); err != nil {
		return nil, err
	}
	logging.Get(logging.CategoryBoot).Info("Config: %s (catalog=%s viewer=%v)", path, cfg.Catalog.Source, cfg.Viewer.Enabled)
	return cfg, nil
}

func newViewer(cfg *config.Config) viewer.Viewer {
	if !cfg.Viewer.Enabled {
		return &viewer.Noop{}
	}
	return viewer.NewSessionManager(cfg.Viewer)
}

// loadStore performs the single catalog load for non-interactive commands.
// A failed load leaves the store empty.
func loadStore(ctx context.Context, cfg *config.Config) *catalog.Store {
	store := catalog.NewStore(catalog.NewSource(cfg.Catalog.Source))
	if timeout := cfg.Catalog.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := store.Load(ctx); err != nil {
		logger.Warn("Catalog unavailable", zap.String("source", cfg.Catalog.Source), zap.Error(err))
	} else {
		logger.Debug("Catalog loaded", zap.Int("games", len(store.Games())))
	}
	return store
}

// watchPath is the local file to watch when catalog.watch is on.
func watchPath(cfg *config.Config, src catalog.Source) string {
	if !cfg.Catalog.Watch {
		return ""
	}
	switch s := src.(type) {
	case *catalog.FileSource:
		return s.Path
	case *catalog.SQLiteSource:
		return s.Path
	}
	return ""
}
