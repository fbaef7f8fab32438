package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmarkov/newsmind/internal/store"
	"github.com/pmarkov/newsmind/internal/topics"
)

var (
	clustersShowMembers bool
	clustersTopKeywords int
)

// clustersCmd represents the clusters command
var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List clusters with their top keywords",
	Long: `Clusters lists the persisted clusters ordered by ID, each with its
document count and decayed top keywords.

Example:
  newsmind clusters
  newsmind clusters --members`,
	RunE: runClusters,
}

func init() {
	rootCmd.AddCommand(clustersCmd)
	clustersCmd.Flags().BoolVar(&clustersShowMembers, "members", false, "also list member article IDs")
	clustersCmd.Flags().IntVar(&clustersTopKeywords, "top-keywords", 0, "keywords per cluster (overrides config)")
}

func runClusters(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("open state dir: %w", err)
	}

	clusterStore, err := st.LoadClusters()
	if err != nil {
		return err
	}
	stats, err := st.LoadTopicStats()
	if err != nil {
		return err
	}

	if len(clusterStore.Clusters) == 0 {
		fmt.Println("No clusters yet; run 'newsmind ingest' first.")
		return nil
	}
	if clustersTopKeywords > 0 {
		cfg.Topics.TopKeywords = clustersTopKeywords
	}

	topicEngine := topics.NewEngine(stats, clusterStore, cfg.Topics)
	for _, id := range clusterStore.ClusterIDs() {
		c := clusterStore.Clusters[id]
		fmt.Printf("%s  docs=%-4d updated=%s\n", c.ID, c.DocumentCount, c.LastUpdatedAt.Format("2006-01-02 15:04"))

		keywords, err := topicEngine.TopKeywords(id, cfg.Topics.TopKeywords)
		if err == nil && len(keywords) > 0 {
			parts := make([]string, len(keywords))
			for i, kw := range keywords {
				parts[i] = fmt.Sprintf("%s(%.1f)", kw.Keyword, kw.Frequency)
			}
			fmt.Printf("  keywords: %s\n", strings.Join(parts, " "))
		}
		if clustersShowMembers {
			fmt.Printf("  members: %s\n", strings.Join(c.MemberIDs, " "))
		}
	}
	fmt.Printf("\n%d clusters, %d documents\n", len(clusterStore.Clusters), clusterStore.TotalDocuments())
	return nil
}
