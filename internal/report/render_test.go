package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pagepulse/post-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AnalysisResult {
	post := &models.Post{
		ID:        "urn:li:share:1",
		Text:      "recyclable bottle launch",
		CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Stats: models.Stats{
			TotalInteractions: 115,
			EngagementRate:    0.115,
		},
	}

	return &models.AnalysisResult{
		Since:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until:              time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalPostsFetched:  3,
		TotalPostsAnalyzed: 1,
		CategorizedPosts: []models.CategorizedPost{
			{Post: post, Categories: []string{"sustainability", "innovation", "packaging"}},
		},
		CategoryCounts: map[string]int{"sustainability": 1, "innovation": 1, "packaging": 1},
		TopPosts:       []*models.Post{post},
		Traits: models.Traits{
			Categories: map[string]float64{"sustainability": 1},
			MediaTypes: map[string]float64{"unspecified": 1},
			Days:       map[string]float64{"Wednesday": 1},
			Hashtags:   map[string]int{"eco": 1},
			Averages: models.TraitAverages{
				WordCount:       3,
				HashtagsPerPost: "1.00",
				LinkRate:        "0.0%",
				MentionRate:     "0.0%",
			},
		},
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleResult())

	assert.Contains(t, text, "Analyzed 1 posts out of 3 fetched.")
	assert.Contains(t, text, "Timeframe: 2024-01-01 -> 2024-01-31")
	assert.Contains(t, text, "1. 2024-01-10 | Engagement 0.1150 | 115 interactions | sustainability, innovation, packaging")
	assert.Contains(t, text, "- eco: 1")
	assert.Contains(t, text, "- link_rate: 0.0%")
}

func TestRenderText_EmptyResult(t *testing.T) {
	result := &models.AnalysisResult{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	text := RenderText(result)

	assert.Contains(t, text, "No posts in the selected window.")
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	data, err := RenderJSON(sampleResult())
	require.NoError(t, err)

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 1, decoded.TotalPostsAnalyzed)
	require.Len(t, decoded.TopPosts, 1)
	assert.Equal(t, 0.115, decoded.TopPosts[0].Stats.EngagementRate)
}
