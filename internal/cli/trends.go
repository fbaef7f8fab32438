package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmarkov/newsmind/internal/model"
	"github.com/pmarkov/newsmind/internal/store"
	"github.com/pmarkov/newsmind/internal/trend"
)

// trendsCmd represents the trends command
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Compare the two most recent snapshots",
	Long: `Trends compares the two most recent trend snapshots and prints the
growing, new, declining, and vanished clusters.

Example:
  newsmind trends`,
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("open state dir: %w", err)
	}

	snapshots, err := st.LoadRecentTrendSnapshots(2)
	if err != nil {
		return err
	}
	if len(snapshots) < 2 {
		fmt.Println("Not enough snapshots yet; run 'newsmind ingest' at least twice.")
		return nil
	}

	report, err := trend.NewDetector(cfg.Trends).Detect(snapshots[0], snapshots[1])
	if err != nil {
		return fmt.Errorf("detect trends: %w", err)
	}

	printTrendReport(report, nil)
	return nil
}

// printTrendReport renders one report to stdout.
func printTrendReport(report *model.TrendReport, summaries map[string]string) {
	fmt.Printf("\nTrends %s -> %s\n",
		report.PreviousTimestamp.Format("2006-01-02 15:04:05"),
		report.CurrentTimestamp.Format("2006-01-02 15:04:05"))

	section := func(name string, entries []model.TrendEntry) {
		if len(entries) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", name)
		for _, e := range entries {
			fmt.Printf("  %s  docs=%d  rate=%+.2f", e.ClusterID, e.DocumentCount, e.GrowthRate)
			if summary, ok := summaries[e.ClusterID]; ok {
				fmt.Printf("  %s", summary)
			}
			fmt.Println()
		}
	}

	section("Growing", report.Growing)
	if len(report.New) > 0 {
		fmt.Printf("\nNew:\n")
		for _, e := range report.New {
			fmt.Printf("  %s  docs=%d  created=%s", e.ClusterID, e.DocumentCount, e.CreatedAt.Format("15:04:05"))
			if summary, ok := summaries[e.ClusterID]; ok {
				fmt.Printf("  %s", summary)
			}
			fmt.Println()
		}
	}
	section("Declining", report.Declining)
	section("Vanished", report.Vanished)

	if len(report.Growing)+len(report.New)+len(report.Declining)+len(report.Vanished) == 0 {
		fmt.Println("\nNo notable changes.")
	}
}
