package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_IsEnabled(t *testing.T) {
	assert.True(t, NewClient("token", "").IsEnabled())
	assert.False(t, NewClient("", "").IsEnabled())
}

func TestFlattenSocialActions(t *testing.T) {
	stats := flattenSocialActions(map[string]any{
		"reactionsSummary": map[string]any{"aggregatedTotal": float64(120)},
		"commentsSummary":  map[string]any{"totalFirstLevelComments": float64(10)},
		"sharesSummary":    map[string]any{"shareCount": float64(5)},
		"clicksSummary": map[string]any{
			"organicClicks": map[string]any{"clicks": float64(7)},
		},
		"impressionsSummary": map[string]any{
			"organicImpressions": map[string]any{"impressionsCount": float64(1000)},
		},
	})

	// Likes summary absent, reactions stand in.
	assert.Equal(t, float64(120), stats["likes"])
	assert.Equal(t, float64(10), stats["comments"])
	assert.Equal(t, float64(5), stats["shares"])
	assert.Equal(t, float64(7), stats["clicks"])
	assert.Equal(t, float64(1000), stats["impressions"])
}

func TestFlattenSocialActions_LikesPreferred(t *testing.T) {
	stats := flattenSocialActions(map[string]any{
		"likesSummary":     map[string]any{"aggregatedTotal": float64(80)},
		"reactionsSummary": map[string]any{"aggregatedTotal": float64(120)},
	})

	assert.Equal(t, float64(80), stats["likes"])
}

func TestHasNextPage(t *testing.T) {
	withNext := map[string]any{
		"paging": map[string]any{
			"links": []any{
				map[string]any{"rel": "prev"},
				map[string]any{"rel": "next"},
			},
		},
	}
	assert.True(t, hasNextPage(withNext))

	assert.False(t, hasNextPage(map[string]any{}))
	assert.False(t, hasNextPage(map[string]any{
		"paging": map[string]any{"links": []any{map[string]any{"rel": "prev"}}},
	}))
}
