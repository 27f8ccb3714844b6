package insights

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pagepulse/post-insights/internal/config"
	"github.com/pagepulse/post-insights/internal/linkedin"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(filename string, data []byte) error {
	args := m.Called(filename, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(filename string) ([]byte, error) {
	args := m.Called(filename)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(prefix string) ([]string, error) {
	args := m.Called(prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReport(result *models.AnalysisResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func newTestService(cfg *config.Config) (*Service, *MockStorage, *MockNotificationService) {
	mockStorage := &MockStorage{}
	mockNotifications := &MockNotificationService{}
	client := linkedin.NewClient(cfg.LinkedInAccessToken, cfg.LinkedInAPIVersion)
	return NewService(cfg, mockStorage, mockNotifications, client), mockStorage, mockNotifications
}

func TestService_AnalyzeExport(t *testing.T) {
	service, _, _ := newTestService(&config.Config{})

	createdAt := time.Now().UTC().AddDate(0, 0, -3).Format(time.RFC3339)
	export := fmt.Sprintf(`{"elements": [
		{"id": "urn:li:share:1", "text": "We launched a new recyclable bottle #eco", "createdAt": %q,
		 "stats": {"likes": 100, "comments": 10, "shares": 5, "impressions": 1000}}
	]}`, createdAt)

	result := service.AnalyzeExport([]byte(export), models.AnalysisOptions{TopN: 3, LookbackDays: 30})

	assert.Equal(t, 1, result.TotalPostsFetched)
	assert.Equal(t, 1, result.TotalPostsAnalyzed)
	require.Len(t, result.TopPosts, 1)
	assert.Equal(t, 0.115, result.TopPosts[0].Stats.EngagementRate)
	assert.Equal(t, 1, result.CategoryCounts["sustainability"])
}

func TestService_AnalyzeExportUpdatesMetrics(t *testing.T) {
	service, _, _ := newTestService(&config.Config{})

	createdAt := time.Now().UTC().AddDate(0, 0, -3).Format(time.RFC3339)
	export := fmt.Sprintf(`[{"text": "partner announcement", "createdAt": %q}]`, createdAt)

	service.AnalyzeExport([]byte(export), models.AnalysisOptions{TopN: 5, LookbackDays: 30})

	var metrics Metrics
	require.NoError(t, json.Unmarshal([]byte(service.GetMetrics()), &metrics))
	assert.Equal(t, 1, metrics.TotalPostsAnalyzed)
	assert.Equal(t, 1, metrics.CategoryBreakdown["partnerships"])
	assert.False(t, metrics.LastRun.IsZero())
}

func TestService_RunAnalysisWithoutCredentials(t *testing.T) {
	service, _, mockNotifications := newTestService(&config.Config{})

	err := service.RunAnalysis()

	assert.Error(t, err)
	mockNotifications.AssertNotCalled(t, "SendReport", mock.Anything)
}

func TestService_RulesFallBackOnMissingConfig(t *testing.T) {
	service, _, _ := newTestService(&config.Config{CategoryConfigPath: "does/not/exist.json"})

	rules := service.Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, "sustainability", rules[0].Name)
}
