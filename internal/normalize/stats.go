package normalize

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/pagepulse/post-insights/internal/models"
)

// Exports disagree on where the counters live and what they are called.
// statsContainers lists the sub-objects to look inside, in priority
// order; counterAliases lists the accepted spellings per counter.
var statsContainers = []string{"stats", "statistics", "totalShareStatistics", "engagement"}

var counterAliases = map[string][]string{
	"likes":       {"likes", "likeCount", "numLikes", "reactions"},
	"comments":    {"comments", "commentCount", "numComments"},
	"shares":      {"shares", "shareCount", "numShares", "reposts"},
	"clicks":      {"clicks", "clickCount"},
	"impressions": {"impressions", "impressionCount", "views"},
}

// ExtractStats resolves the engagement counters from whatever
// stats-shaped sub-object the record carries. It is total: absent or
// unparseable fields count as zero, and it never fails.
func ExtractStats(raw map[string]any) models.Stats {
	container := raw
	for _, key := range statsContainers {
		if sub, ok := raw[key].(map[string]any); ok {
			container = sub
			break
		}
	}

	stats := models.Stats{
		Likes:       counter(container, raw, counterAliases["likes"]),
		Comments:    counter(container, raw, counterAliases["comments"]),
		Shares:      counter(container, raw, counterAliases["shares"]),
		Clicks:      counter(container, raw, counterAliases["clicks"]),
		Impressions: counter(container, raw, counterAliases["impressions"]),
	}

	// Impressions measure reach, not interaction, so they stay out of
	// the interaction total.
	stats.TotalInteractions = stats.Likes + stats.Comments + stats.Shares + stats.Clicks
	if stats.Impressions > 0 {
		stats.EngagementRate = round4(stats.TotalInteractions / stats.Impressions)
	}

	return stats
}

// counter resolves one counter: first present spelling wins, the
// container is preferred over the bare record. Explicit zeros count as
// present; nulls do not.
func counter(container, raw map[string]any, aliases []string) float64 {
	for _, source := range []map[string]any{container, raw} {
		if source == nil {
			continue
		}
		for _, alias := range aliases {
			value, ok := source[alias]
			if !ok || value == nil {
				continue
			}
			n, _ := asNumber(value)
			return n
		}
	}
	return 0
}

// asNumber coerces the JSON-decoded shapes a counter can arrive in.
// Anything non-numeric, including NaN, coerces to 0.
func asNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, true
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, true
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) {
		return 0, true
	}
	return n, true
}

func round4(n float64) float64 {
	return math.Round(n*10000) / 10000
}
