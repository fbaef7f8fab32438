// Package api exposes the persisted engine state over a read-only HTTP
// API. Handlers never mutate state; all writes go through the pipeline.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pmarkov/newsmind/internal/model"
	"github.com/pmarkov/newsmind/internal/store"
	"github.com/pmarkov/newsmind/internal/topics"
	"github.com/pmarkov/newsmind/internal/trend"
)

// Handler serves read-only views of the cluster, topic, and trend state.
type Handler struct {
	store  store.Store
	topics model.TopicsConfig
	trends model.TrendsConfig
}

// NewHandler creates a handler over the given store.
func NewHandler(st store.Store, topicsCfg model.TopicsConfig, trendsCfg model.TrendsConfig) *Handler {
	return &Handler{store: st, topics: topicsCfg, trends: trendsCfg}
}

// GetClusters lists all clusters with their decayed top keywords.
func (h *Handler) GetClusters(c *gin.Context) {
	clusters, stats, ok := h.loadState(c)
	if !ok {
		return
	}
	topicEngine := topics.NewEngine(stats, clusters, h.topics)

	res := ClustersResponse{Clusters: []ClusterResponse{}}
	for _, id := range clusters.ClusterIDs() {
		res.Clusters = append(res.Clusters, h.clusterResponse(clusters.Clusters[id], topicEngine))
	}
	res.Total = len(res.Clusters)
	c.JSON(http.StatusOK, res)
}

// GetCluster returns one cluster with its member IDs.
func (h *Handler) GetCluster(c *gin.Context) {
	clusters, stats, ok := h.loadState(c)
	if !ok {
		return
	}
	cl, found := clusters.Clusters[c.Param("id")]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cluster not found"})
		return
	}

	topicEngine := topics.NewEngine(stats, clusters, h.topics)
	c.JSON(http.StatusOK, ClusterDetailResponse{
		ClusterResponse: h.clusterResponse(cl, topicEngine),
		MemberIDs:       cl.MemberIDs,
	})
}

// GetClusterArticles returns the persisted articles of one cluster.
func (h *Handler) GetClusterArticles(c *gin.Context) {
	clusters, err := h.store.LoadClusters()
	if err != nil {
		slog.Error("error loading clusters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	cl, found := clusters.Clusters[c.Param("id")]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cluster not found"})
		return
	}

	res := ClusterArticlesResponse{ClusterID: cl.ID, Articles: []ArticleResponse{}}
	for _, id := range cl.MemberIDs {
		article, err := h.store.LoadArticle(id)
		if err != nil {
			slog.Error("error loading article", "article_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
			return
		}
		res.Articles = append(res.Articles, ArticleResponse{
			ID:          article.ID,
			Title:       article.Title,
			URL:         article.URL,
			Source:      article.Source,
			PublishedAt: article.PublishedAt.Format(time.RFC3339),
			Keywords:    article.Keywords,
		})
	}
	c.JSON(http.StatusOK, res)
}

// GetArticleCluster returns the cluster an article belongs to.
func (h *Handler) GetArticleCluster(c *gin.Context) {
	clusters, err := h.store.LoadClusters()
	if err != nil {
		slog.Error("error loading clusters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	articleID := c.Param("id")
	clusterID := clusters.FindMember(articleID)
	if clusterID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	c.JSON(http.StatusOK, ArticleClusterResponse{ArticleID: articleID, ClusterID: clusterID})
}

// GetTrends compares the two most recent snapshots. With a single snapshot
// every cluster is reported as new; with none the endpoint is a 404.
func (h *Handler) GetTrends(c *gin.Context) {
	snapshots, err := h.store.LoadRecentTrendSnapshots(2)
	if err != nil {
		slog.Error("error loading snapshots", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	if len(snapshots) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No snapshots yet"})
		return
	}

	current := snapshots[len(snapshots)-1]
	res := TrendsResponse{
		CurrentTimestamp: current.Timestamp.Format(time.RFC3339Nano),
		Growing:          []model.TrendEntry{},
		New:              []model.NewClusterEntry{},
		Declining:        []model.TrendEntry{},
		Vanished:         []model.TrendEntry{},
	}

	if len(snapshots) == 1 {
		for id, cl := range current.Clusters {
			res.New = append(res.New, model.NewClusterEntry{
				ClusterID:     id,
				DocumentCount: cl.DocumentCount,
				CreatedAt:     cl.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, res)
		return
	}

	report, err := trend.NewDetector(h.trends).Detect(snapshots[0], current)
	if err != nil {
		slog.Error("error detecting trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trend detection error"})
		return
	}
	res.PreviousTimestamp = report.PreviousTimestamp.Format(time.RFC3339Nano)
	res.Growing = report.Growing
	res.New = report.New
	res.Declining = report.Declining
	res.Vanished = report.Vanished
	c.JSON(http.StatusOK, res)
}

// GetHealth reports whether the state directory is readable.
func (h *Handler) GetHealth(c *gin.Context) {
	if _, err := h.store.LoadClusters(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": "unreadable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": "readable",
	})
}

func (h *Handler) loadState(c *gin.Context) (*model.ClusterStore, map[string]*model.TopicStats, bool) {
	clusters, err := h.store.LoadClusters()
	if err != nil {
		slog.Error("error loading clusters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return nil, nil, false
	}
	stats, err := h.store.LoadTopicStats()
	if err != nil {
		slog.Error("error loading topic stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return nil, nil, false
	}
	return clusters, stats, true
}

func (h *Handler) clusterResponse(cl *model.Cluster, topicEngine *topics.Engine) ClusterResponse {
	keywords := []KeywordResponse{}
	if ranked, err := topicEngine.TopKeywords(cl.ID, h.topics.TopKeywords); err == nil {
		for _, kw := range ranked {
			keywords = append(keywords, KeywordResponse{Keyword: kw.Keyword, Frequency: kw.Frequency})
		}
	}
	return ClusterResponse{
		ID:            cl.ID,
		DocumentCount: cl.DocumentCount,
		CreatedAt:     cl.CreatedAt.Format(time.RFC3339),
		LastUpdatedAt: cl.LastUpdatedAt.Format(time.RFC3339),
		TopKeywords:   keywords,
	}
}
