package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"nexus/internal/catalog"
	"nexus/internal/coordinator"
	"nexus/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listSearch   string
	listCategory string
	listFeatured bool
	listJSON     bool
)

// listCmd prints the games matching a query
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games matching a search and category",
	Long: `Loads the catalog once and prints the games a browser session would show for
the given search text and category. With --featured only featured games are printed.

Example:
  nexus list --category puzzle --search block`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.ParseCategory(listCategory)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := loadStore(cmd.Context(), cfg)
		return listGames(cmd.OutOrStdout(), store, coordinator.Query{Search: listSearch, Category: cat}, listFeatured, listJSON)
	},
}

// playCmd opens one game in the viewer
var playCmd = &cobra.Command{
	Use:   "play [game-id]",
	Short: "Open a game in the embedded viewer",
	Long: `Loads the catalog, selects the game with the given id and opens it in the
viewer window. The command waits until interrupted (Ctrl+C).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := loadStore(ctx, cfg)
		coord := coordinator.New(store)
		if !coord.SelectByID(args[0]) {
			return fmt.Errorf("no game with id %q", args[0])
		}
		game, _ := coord.Selected()

		v := newViewer(cfg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := v.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Viewer shutdown failed", zap.Error(err))
			}
		}()

		session, err := v.Open(ctx, game)
		if err != nil {
			logging.Audit().ViewerError(game.ID, err)
			return fmt.Errorf("open viewer: %w", err)
		}
		logging.AuditWithSession(session.ID).GameOpened(game.ID)
		logger.Info("Playing", zap.String("game", game.Title), zap.String("session", session.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%s). Press Ctrl+C to close.\n", game.Title, game.Category)

		<-ctx.Done()
		logging.Audit().GameClosed(game.ID, 0)
		return nil
	},
}

// categoriesCmd prints the category enumeration
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the game categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, c := range catalog.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", i+1, c)
		}
		return nil
	},
}

// listGames writes the visible (or featured) set for q.
func listGames(w io.Writer, store *catalog.Store, q coordinator.Query, featured, asJSON bool) error {
	coord := coordinator.New(store)
	coord.SetSearch(q.Search)
	coord.SetCategory(q.Category)

	games := coord.Visible()
	if featured {
		games = coord.Featured()
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(games)
	}

	if !featured {
		fmt.Fprintf(w, "%s (%d games found)\n", coord.Heading(), len(games))
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range games {
		star := ""
		if g.Featured {
			star = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Category, star)
	}
	return tw.Flush()
}
