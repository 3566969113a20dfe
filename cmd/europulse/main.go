// EuroPulse — European macroeconomic dashboard backend
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/europulse/api"
	"github.com/seenimoa/europulse/internal/config"
	"github.com/seenimoa/europulse/internal/dashboard"
	"github.com/seenimoa/europulse/internal/logging"
	"github.com/seenimoa/europulse/internal/providers"
	"github.com/seenimoa/europulse/internal/ranking"
	"github.com/seenimoa/europulse/internal/store"
	"github.com/seenimoa/europulse/internal/store/sqlite"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "europulse",
	Short: "EuroPulse — European macroeconomic dashboard backend",
	Long: `EuroPulse serves macroeconomic indicators for European countries:
GDP, growth, inflation, population and unemployment from the World Bank
plus monthly HICP rates from Eurostat, with cross-country summaries,
rankings and a curated automotive market dataset.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logging.Setup(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(yearsCmd)
}

// openStore opens the persistent cache per config. An empty path
// disables persistence.
func openStore() store.Store {
	if cfg.Cache.Path == "" {
		return store.Nop{}
	}
	db, err := sqlite.New(cfg.Cache.Path, time.Duration(cfg.Cache.TTLSec)*time.Second)
	if err != nil {
		logging.Component("cli").WithError(err).Warn("cache unavailable, continuing without persistence")
		return store.Nop{}
	}
	return db
}

// buildAggregator wires the provider registry and aggregator from the
// loaded config.
func buildAggregator(cache store.Store) (*dashboard.Aggregator, error) {
	reg, err := providers.NewRegistry(cfg, cache)
	if err != nil {
		return nil, err
	}
	return dashboard.NewAggregator(
		reg,
		cfg.Countries,
		cfg.Indicators,
		cfg.Dashboard.ConcurrentFetches,
		cfg.Dashboard.YearOptions,
	), nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("EuroPulse %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := openStore()
		defer cache.Close()

		reg, err := providers.NewRegistry(cfg, cache)
		if err != nil {
			return err
		}
		agg := dashboard.NewAggregator(
			reg,
			cfg.Countries,
			cfg.Indicators,
			cfg.Dashboard.ConcurrentFetches,
			cfg.Dashboard.YearOptions,
		)

		api.Version = version
		srv := api.NewServer(cfg, reg, agg)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("Starting EuroPulse API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Snapshot Command ---

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch all metrics once and print the snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetString("year")

		cache := openStore()
		defer cache.Close()

		agg, err := buildAggregator(cache)
		if err != nil {
			return err
		}

		sess := dashboard.NewSession(agg)
		snap, err := sess.Refresh(context.Background(), year)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func init() {
	snapshotCmd.Flags().String("year", "", "target year (default: latest)")
}

// --- Rank Command ---

var rankCmd = &cobra.Command{
	Use:   "rank [indicator]",
	Short: "Print the country ranking for an indicator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		year, _ := cmd.Flags().GetString("year")

		cache := openStore()
		defer cache.Close()

		agg, err := buildAggregator(cache)
		if err != nil {
			return err
		}

		spec, ok := agg.IndicatorSpec(key)
		if !ok {
			return fmt.Errorf("unknown indicator %q", key)
		}

		metrics, err := agg.Aggregate(context.Background(), year)
		if err != nil {
			return err
		}

		items := ranking.Rank(metrics, spec)
		fmt.Printf("%s", spec.Name)
		if year != "" {
			fmt.Printf(" (%s)", year)
		}
		fmt.Println()
		for i, item := range items {
			fmt.Printf("%2d. %-20s %s\n", i+1, item.Name, item.Value)
		}
		return nil
	},
}

func init() {
	rankCmd.Flags().String("year", "", "target year (default: latest)")
}

// --- Years Command ---

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Print the selectable year options",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := openStore()
		defer cache.Close()

		agg, err := buildAggregator(cache)
		if err != nil {
			return err
		}

		for _, y := range agg.YearOptions(context.Background()) {
			fmt.Println(y)
		}
		return nil
	},
}
