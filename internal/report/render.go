package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pagepulse/post-insights/internal/models"
)

// RenderJSON serializes an analysis result for machine consumers.
func RenderJSON(result *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize analysis result: %w", err)
	}
	return data, nil
}

// RenderText builds the human-readable report: header, category
// shares, ranked top posts and the shared traits of the top subset.
func RenderText(result *models.AnalysisResult) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Analyzed %d posts out of %d fetched.\n",
		result.TotalPostsAnalyzed, result.TotalPostsFetched))
	text.WriteString(fmt.Sprintf("Timeframe: %s -> %s\n\n",
		result.Since.Format("2006-01-02"), result.Until.Format("2006-01-02")))

	if result.TotalPostsAnalyzed == 0 {
		text.WriteString("No posts in the selected window. Widen the lookback and retry.\n")
		return text.String()
	}

	text.WriteString("Top categories (share of analyzed posts):\n")
	for _, entry := range topCategories(result.CategoryCounts, 5) {
		portion := float64(entry.count) / float64(result.TotalPostsAnalyzed)
		text.WriteString(fmt.Sprintf("  - %s: %.0f%% of posts\n", entry.name, portion*100))
	}

	categoryLookup := make(map[string][]string, len(result.CategorizedPosts))
	for _, entry := range result.CategorizedPosts {
		categoryLookup[entry.Post.ID] = entry.Categories
	}

	text.WriteString("\nMost successful posts (ranked by engagement rate):\n")
	for i, post := range result.TopPosts {
		categories := strings.Join(categoryLookup[post.ID], ", ")
		text.WriteString(fmt.Sprintf("%d. %s | Engagement %.4f | %.0f interactions | %s\n",
			i+1, post.CreatedAt.Format("2006-01-02"), post.Stats.EngagementRate,
			post.Stats.TotalInteractions, categories))
	}

	text.WriteString("\nTraits shared by top posts:\n")
	writeTraits(&text, result.Traits)

	return text.String()
}

func writeTraits(text *strings.Builder, traits models.Traits) {
	writeDistribution(text, "categories", traits.Categories)
	writeDistribution(text, "media_types", traits.MediaTypes)
	writeDistribution(text, "days", traits.Days)

	if len(traits.Hashtags) > 0 {
		text.WriteString("  hashtags:\n")
		for _, tag := range sortedByCount(traits.Hashtags) {
			text.WriteString(fmt.Sprintf("    - %s: %d\n", tag, traits.Hashtags[tag]))
		}
	}

	text.WriteString("  averages:\n")
	text.WriteString(fmt.Sprintf("    - word_count: %.1f\n", traits.Averages.WordCount))
	text.WriteString(fmt.Sprintf("    - hashtags_per_post: %s\n", traits.Averages.HashtagsPerPost))
	text.WriteString(fmt.Sprintf("    - link_rate: %s\n", traits.Averages.LinkRate))
	text.WriteString(fmt.Sprintf("    - mention_rate: %s\n", traits.Averages.MentionRate))
}

func writeDistribution(text *strings.Builder, name string, dist map[string]float64) {
	if len(dist) == 0 {
		return
	}
	text.WriteString(fmt.Sprintf("  %s:\n", name))
	keys := make([]string, 0, len(dist))
	for key := range dist {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if dist[keys[i]] != dist[keys[j]] {
			return dist[keys[i]] > dist[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		text.WriteString(fmt.Sprintf("    - %s: %.0f%%\n", key, dist[key]*100))
	}
}

type categoryCount struct {
	name  string
	count int
}

func topCategories(counts map[string]int, n int) []categoryCount {
	entries := make([]categoryCount, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, categoryCount{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func sortedByCount(counts map[string]int) []string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags
}
