package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/pagepulse/post-insights/internal/categorize"
	"github.com/pagepulse/post-insights/internal/models"
)

// MediaTypeUnspecified keys posts that carry no media type in the
// media-type distribution.
const MediaTypeUnspecified = "unspecified"

const topHashtagCount = 5

// SummarizeTraits aggregates what a subset of posts has in common:
// category, media-type and weekday distributions normalized by subset
// size, the five most frequent hashtags, and numeric averages. An
// empty subset yields an empty Traits value, not an error.
func SummarizeTraits(posts []*models.Post, rules categorize.Ruleset) models.Traits {
	traits := models.Traits{
		Categories: make(map[string]float64),
		MediaTypes: make(map[string]float64),
		Days:       make(map[string]float64),
		Hashtags:   make(map[string]int),
	}
	if len(posts) == 0 {
		return traits
	}

	total := float64(len(posts))

	_, categoryCounts := categorize.CategorizeAll(posts, rules)
	for category, count := range categoryCounts {
		traits.Categories[category] = round2(float64(count) / total)
	}

	mediaCounts := make(map[string]int)
	dayCounts := make(map[string]int)
	var wordSum, tagSum, linkCount, mentionCount int

	for _, post := range posts {
		media := post.MediaType
		if media == "" {
			media = MediaTypeUnspecified
		}
		mediaCounts[media]++
		dayCounts[post.Weekday()]++
		wordSum += post.WordCount
		tagSum += len(post.Hashtags)
		if post.ContainsLink {
			linkCount++
		}
		if post.ContainsMention {
			mentionCount++
		}
	}

	for media, count := range mediaCounts {
		traits.MediaTypes[media] = round2(float64(count) / total)
	}
	for day, count := range dayCounts {
		traits.Days[day] = round2(float64(count) / total)
	}

	traits.Hashtags = topHashtags(posts, topHashtagCount)
	traits.Averages = models.TraitAverages{
		WordCount:       round1(float64(wordSum) / total),
		HashtagsPerPost: fmt.Sprintf("%.2f", float64(tagSum)/total),
		LinkRate:        percent(float64(linkCount) / total),
		MentionRate:     percent(float64(mentionCount) / total),
	}

	return traits
}

// topHashtags returns raw counts for the n most frequent hashtags.
// Ties resolve by first appearance across the posts.
func topHashtags(posts []*models.Post, n int) map[string]int {
	counts := make(map[string]int)
	var order []string

	for _, post := range posts {
		for _, tag := range post.Hashtags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	top := make(map[string]int, len(order))
	for _, tag := range order {
		top[tag] = counts[tag]
	}
	return top
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func round1(n float64) float64 {
	return math.Round(n*10) / 10
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}
