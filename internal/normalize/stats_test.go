package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStats_CounterAliases(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likeCount":   float64(10),
			"numComments": float64(4),
			"reposts":     float64(2),
			"clickCount":  float64(1),
			"impressions": float64(100),
		},
	})

	assert.Equal(t, float64(10), stats.Likes)
	assert.Equal(t, float64(4), stats.Comments)
	assert.Equal(t, float64(2), stats.Shares)
	assert.Equal(t, float64(1), stats.Clicks)
	assert.Equal(t, float64(100), stats.Impressions)
	assert.Equal(t, float64(17), stats.TotalInteractions)
	assert.Equal(t, 0.17, stats.EngagementRate)
}

func TestExtractStats_ContainerAlternatives(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"stats", map[string]any{"stats": map[string]any{"likes": float64(3)}}},
		{"statistics", map[string]any{"statistics": map[string]any{"likes": float64(3)}}},
		{"totalShareStatistics", map[string]any{"totalShareStatistics": map[string]any{"likes": float64(3)}}},
		{"engagement", map[string]any{"engagement": map[string]any{"likes": float64(3)}}},
		{"bare record fallback", map[string]any{"likes": float64(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ExtractStats(tt.raw)
			assert.Equal(t, float64(3), stats.Likes)
		})
	}
}

func TestExtractStats_ExplicitZeroWins(t *testing.T) {
	// "likes" is present and zero; the likeCount alias must not
	// override it.
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likes":     float64(0),
			"likeCount": float64(50),
		},
	})
	assert.Equal(t, float64(0), stats.Likes)
}

func TestExtractStats_NullSkipped(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likes":     nil,
			"likeCount": float64(7),
		},
	})
	assert.Equal(t, float64(7), stats.Likes)
}

func TestExtractStats_NonNumericCoercesToZero(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likes":    "many",
			"comments": map[string]any{},
			"shares":   "12",
		},
	})

	assert.Equal(t, float64(0), stats.Likes)
	assert.Equal(t, float64(0), stats.Comments)
	assert.Equal(t, float64(12), stats.Shares)
}

func TestExtractStats_MissingEverything(t *testing.T) {
	stats := ExtractStats(map[string]any{})

	assert.Zero(t, stats.TotalInteractions)
	assert.Zero(t, stats.EngagementRate)
}

func TestExtractStats_ZeroImpressionsZeroRate(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{"likes": float64(40)},
	})

	assert.Equal(t, float64(40), stats.TotalInteractions)
	assert.Zero(t, stats.EngagementRate)
}

func TestExtractStats_EngagementRateRounded(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likes":       float64(1),
			"impressions": float64(3),
		},
	})
	assert.Equal(t, 0.3333, stats.EngagementRate)
}

func TestExtractStats_LaunchScenario(t *testing.T) {
	stats := ExtractStats(map[string]any{
		"stats": map[string]any{
			"likes":       float64(100),
			"comments":    float64(10),
			"shares":      float64(5),
			"impressions": float64(1000),
		},
	})

	assert.Equal(t, float64(115), stats.TotalInteractions)
	assert.Equal(t, 0.115, stats.EngagementRate)
}
