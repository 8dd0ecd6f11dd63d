package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/furnishdata/catalogue-crawler/internal/config"
	"github.com/furnishdata/catalogue-crawler/internal/storage/postgres"
)

func newStatsCmd() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarizes crawled products by category",
		Long: `Reads the product document store and prints per-category aggregations:
product counts by commercial message tag and average customer rating. The
level flag selects which segment of the category hierarchy to group by.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsCommand(cmd, level)
		},
	}
	cmd.Flags().IntVar(&level, "level", 0, "category hierarchy level to group by")
	return cmd
}

func runStatsCommand(cmd *cobra.Command, level int) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()
	store, err := postgres.NewProductStore(ctx, postgres.ProductStoreConfig{
		DSN:   cfg.DB.DSN,
		Table: cfg.DB.Table,
	})
	if err != nil {
		return fmt.Errorf("open product store: %w", err)
	}
	defer store.Close()

	categories, err := store.DistinctCategories(ctx, level)
	if err != nil {
		return err
	}
	fmt.Printf("%d categories at level %d\n\n", len(categories), level)

	counts, err := store.CountByMessageTag(ctx, level)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTAG\tPRODUCTS")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.Category, c.Tag, c.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ratings, err := store.AverageRatingByCategory(ctx, level)
	if err != nil {
		return err
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tAVG RATING\tRATED PRODUCTS")
	for _, r := range ratings {
		fmt.Fprintf(w, "%s\t%.2f\t%d\n", r.Category, r.AvgRating, r.Count)
	}
	return w.Flush()
}
