package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pagepulse/post-insights/internal/analysis"
	"github.com/pagepulse/post-insights/internal/categorize"
	"github.com/pagepulse/post-insights/internal/config"
	"github.com/pagepulse/post-insights/internal/ingest"
	"github.com/pagepulse/post-insights/internal/linkedin"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/pagepulse/post-insights/internal/notifications"
	"github.com/pagepulse/post-insights/internal/report"
	"github.com/pagepulse/post-insights/internal/storage"
	"github.com/sirupsen/logrus"
)

// Service orchestrates a full insights run: fetch posts, normalize,
// analyze, store the result and deliver the report.
type Service struct {
	config   *config.Config
	storage  storage.StorageInterface
	notifier notifications.NotificationInterface
	client   *linkedin.Client
	rules    categorize.Ruleset
	metrics  *Metrics
	mu       sync.RWMutex
}

// Metrics holds run statistics for the /metrics endpoint.
type Metrics struct {
	TotalPostsFetched  int            `json:"total_posts_fetched"`
	TotalPostsAnalyzed int            `json:"total_posts_analyzed"`
	DroppedRecords     int            `json:"dropped_records"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	CategoryBreakdown  map[string]int `json:"category_breakdown"`
}

// NewService creates a new insights service. The category ruleset is
// resolved once here; a broken override config falls back to the
// defaults with a warning rather than failing startup.
func NewService(cfg *config.Config, store storage.StorageInterface, notifier notifications.NotificationInterface, client *linkedin.Client) *Service {
	return &Service{
		config:   cfg,
		storage:  store,
		notifier: notifier,
		client:   client,
		rules:    loadRules(cfg.CategoryConfigPath),
		metrics: &Metrics{
			CategoryBreakdown: make(map[string]int),
		},
	}
}

func loadRules(path string) categorize.Ruleset {
	if path == "" {
		return categorize.DefaultRuleset()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("Cannot read category config %s, using default ruleset: %v", path, err)
		return categorize.DefaultRuleset()
	}

	rules, err := categorize.ParseRules(data)
	if err != nil {
		logrus.Warnf("Falling back to default category ruleset: %v", err)
	}
	return rules
}

// Rules returns the ruleset resolved at startup.
func (s *Service) Rules() categorize.Ruleset {
	return s.rules
}

// RunAnalysis fetches the organization's posts from the LinkedIn API,
// analyzes them and delivers the report. Used by the scheduler and the
// manual trigger endpoint.
func (s *Service) RunAnalysis() error {
	start := time.Now()
	logrus.Info("Starting insights run")

	if !s.client.IsEnabled() {
		return fmt.Errorf("linkedin client is not configured (missing access token)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := s.client.FetchPosts(ctx, s.config.LinkedInOrgURN, s.config.FetchLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}
	logrus.Infof("Fetched %d posts for %s", len(records), s.config.LinkedInOrgURN)

	records, err = s.client.HydrateEngagement(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to hydrate engagement: %w", err)
	}

	posts, dropped := ingest.Posts(records)
	result := analysis.Analyze(posts, models.AnalysisOptions{
		TopN:         s.config.TopN,
		LookbackDays: s.config.LookbackDays,
	}, s.rules)

	if err := s.storeResult(result); err != nil {
		logrus.Errorf("Failed to store analysis result: %v", err)
		return err
	}

	s.updateMetrics(result, dropped, time.Since(start))

	if err := s.notifier.SendReport(result); err != nil {
		logrus.Errorf("Failed to send report: %v", err)
		return err
	}

	logrus.Infof("Insights run completed in %v (%d posts analyzed)", time.Since(start), result.TotalPostsAnalyzed)
	return nil
}

// AnalyzeExport runs the analysis pipeline over an uploaded export
// payload. Each call gets its own result; the shared ruleset is
// read-only, so concurrent calls are safe.
func (s *Service) AnalyzeExport(data []byte, opts models.AnalysisOptions) *models.AnalysisResult {
	posts, dropped := ingest.Load(data)
	result := analysis.Analyze(posts, opts, s.rules)
	s.updateMetrics(result, dropped, 0)
	return result
}

func (s *Service) storeResult(result *models.AnalysisResult) error {
	data, err := report.RenderJSON(result)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("analysis-%s.json", time.Now().Format("2006-01-02-15-04-05"))
	return s.storage.Store(filename, data)
}

func (s *Service) updateMetrics(result *models.AnalysisResult, dropped int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalPostsFetched = result.TotalPostsFetched
	s.metrics.TotalPostsAnalyzed = result.TotalPostsAnalyzed
	s.metrics.DroppedRecords = dropped
	s.metrics.LastRun = time.Now()
	if duration > 0 {
		s.metrics.LastRunDuration = duration.String()
	}

	s.metrics.CategoryBreakdown = make(map[string]int, len(result.CategoryCounts))
	for category, count := range result.CategoryCounts {
		s.metrics.CategoryBreakdown[category] = count
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
