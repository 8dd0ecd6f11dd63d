// Package cmd defines the CLI commands for the catalogue crawler binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/config"
	"github.com/furnishdata/catalogue-crawler/internal/logging"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cataloguecrawler",
		Short: "Crawls a furniture retailer's online catalogue into a product dataset.",
		Long: `cataloguecrawler walks the retailer's category tree down to product
listings, fetches every product detail page together with its customer
reviews, and writes one enriched record per product to the document store
and the search index.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env vars with the CRAWLER_ prefix override it)")
	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newStatsCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
