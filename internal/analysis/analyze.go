package analysis

import (
	"sort"
	"time"

	"github.com/pagepulse/post-insights/internal/categorize"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/sirupsen/logrus"
)

// Option bounds. Out-of-range requests are clamped, never rejected.
const (
	MinTopN         = 1
	MaxTopN         = 20
	MinLookbackDays = 7
	MaxLookbackDays = 730
)

// Analyze filters posts to the lookback window ending now, categorizes
// them, ranks them by engagement and summarizes the traits of the top
// performers. It is a pure function of its inputs apart from reading
// the clock, so concurrent runs are safe.
func Analyze(posts []*models.Post, opts models.AnalysisOptions, rules categorize.Ruleset) *models.AnalysisResult {
	until := time.Now().UTC()
	since := until.AddDate(0, 0, -clamp(opts.LookbackDays, MinLookbackDays, MaxLookbackDays))
	return AnalyzeWindow(posts, since, until, opts.TopN, rules)
}

// AnalyzeWindow is Analyze with an explicit window, which keeps results
// reproducible for a fixed window.
func AnalyzeWindow(posts []*models.Post, since, until time.Time, topN int, rules categorize.Ruleset) *models.AnalysisResult {
	topN = clamp(topN, MinTopN, MaxTopN)

	filtered := filterByWindow(posts, since, until)
	logrus.Debugf("Analyzing %d of %d posts within window %s - %s",
		len(filtered), len(posts), since.Format("2006-01-02"), until.Format("2006-01-02"))

	categorized, counts := categorize.CategorizeAll(filtered, rules)
	top := rank(filtered, topN)

	return &models.AnalysisResult{
		Since:              since,
		Until:              until,
		TotalPostsFetched:  len(posts),
		TotalPostsAnalyzed: len(filtered),
		CategorizedPosts:   categorized,
		CategoryCounts:     counts,
		TopPosts:           top,
		Traits:             SummarizeTraits(top, rules),
	}
}

// filterByWindow keeps posts created inside the window, both bounds
// inclusive. Posts without a creation time never make it into the
// analysis set.
func filterByWindow(posts []*models.Post, since, until time.Time) []*models.Post {
	filtered := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if post.CreatedAt.IsZero() {
			continue
		}
		if post.CreatedAt.Before(since) || post.CreatedAt.After(until) {
			continue
		}
		filtered = append(filtered, post)
	}
	return filtered
}

// rank orders posts by engagement rate, then total interactions, both
// descending. The sort is stable so equal posts keep their input order
// and rankings stay deterministic.
func rank(posts []*models.Post, topN int) []*models.Post {
	ranked := make([]*models.Post, len(posts))
	copy(ranked, posts)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Stats.EngagementRate != ranked[j].Stats.EngagementRate {
			return ranked[i].Stats.EngagementRate > ranked[j].Stats.EngagementRate
		}
		return ranked[i].Stats.TotalInteractions > ranked[j].Stats.TotalInteractions
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
