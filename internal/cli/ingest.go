package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmarkov/newsmind/internal/pipeline"
	"github.com/pmarkov/newsmind/internal/store"
)

var (
	ingestTimeout    time.Duration
	ingestEnrich     bool
	ingestMaxStories int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch one batch of stories and update clusters and trends",
	Long: `Ingest fetches the configured Hacker News story lists, embeds each
article, assigns it to a cluster, updates the decayed topic keywords,
and appends a trend snapshot.

Re-running a batch is safe: articles already assigned are skipped.

Example:
  newsmind ingest
  newsmind ingest --enrich --timeout 10m`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 5*time.Minute, "overall batch timeout")
	ingestCmd.Flags().BoolVar(&ingestEnrich, "enrich", false, "fetch article pages for full-text keywords")
	ingestCmd.Flags().IntVar(&ingestMaxStories, "max-stories", 0, "stories per list (overrides config)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestEnrich {
		cfg.Ingest.Enrich = true
	}
	if ingestMaxStories > 0 {
		cfg.Ingest.MaxStoriesPerList = ingestMaxStories
	}

	st, err := store.NewFileStore(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("open state dir: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, st, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("Processed %d articles (%d assigned, %d new clusters)\n",
		result.Articles, result.Assigned, result.NewClusters)
	if result.Report != nil {
		printTrendReport(result.Report, result.Summaries)
	}
	return nil
}
