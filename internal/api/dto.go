package api

import "github.com/pmarkov/newsmind/internal/model"

type KeywordResponse struct {
	Keyword   string  `json:"keyword"`
	Frequency float64 `json:"frequency"`
}

type ClusterResponse struct {
	ID            string            `json:"id"`
	DocumentCount int               `json:"document_count"`
	CreatedAt     string            `json:"created_at"`
	LastUpdatedAt string            `json:"last_updated_at"`
	TopKeywords   []KeywordResponse `json:"top_keywords"`
}

type ClusterDetailResponse struct {
	ClusterResponse
	MemberIDs []string `json:"member_ids"`
}

type ClustersResponse struct {
	Clusters []ClusterResponse `json:"clusters"`
	Total    int               `json:"total"`
}

type ArticleResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"published_at"`
	Keywords    []string `json:"keywords"`
}

type ClusterArticlesResponse struct {
	ClusterID string            `json:"cluster_id"`
	Articles  []ArticleResponse `json:"articles"`
}

type ArticleClusterResponse struct {
	ArticleID string `json:"article_id"`
	ClusterID string `json:"cluster_id"`
}

type TrendsResponse struct {
	PreviousTimestamp string                  `json:"previous_timestamp,omitempty"`
	CurrentTimestamp  string                  `json:"current_timestamp"`
	Growing           []model.TrendEntry      `json:"growing"`
	New               []model.NewClusterEntry `json:"new"`
	Declining         []model.TrendEntry      `json:"declining"`
	Vanished          []model.TrendEntry      `json:"vanished"`
}
