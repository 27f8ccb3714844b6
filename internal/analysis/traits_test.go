package analysis

import (
	"testing"
	"time"

	"github.com/pagepulse/post-insights/internal/categorize"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeTraits_EmptySubset(t *testing.T) {
	traits := SummarizeTraits(nil, categorize.DefaultRuleset())

	assert.Empty(t, traits.Categories)
	assert.Empty(t, traits.MediaTypes)
	assert.Empty(t, traits.Days)
	assert.Empty(t, traits.Hashtags)
	assert.Zero(t, traits.Averages.WordCount)
}

func TestSummarizeTraits_Distributions(t *testing.T) {
	monday := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	posts := []*models.Post{
		{
			Text:         "recyclable bottle launch",
			CreatedAt:    monday,
			MediaType:    "VIDEO",
			Hashtags:     []string{"eco", "launch"},
			WordCount:    3,
			ContainsLink: true,
		},
		{
			Text:            "quarterly update",
			CreatedAt:       tuesday,
			Hashtags:        []string{"q4"},
			WordCount:       2,
			ContainsMention: true,
		},
	}

	traits := SummarizeTraits(posts, categorize.DefaultRuleset())

	assert.Equal(t, 0.5, traits.Categories["sustainability"])
	assert.Equal(t, 0.5, traits.Categories["general"])

	assert.Equal(t, 0.5, traits.MediaTypes["VIDEO"])
	assert.Equal(t, 0.5, traits.MediaTypes[MediaTypeUnspecified])

	assert.Equal(t, 0.5, traits.Days["Monday"])
	assert.Equal(t, 0.5, traits.Days["Tuesday"])

	assert.Equal(t, map[string]int{"eco": 1, "launch": 1, "q4": 1}, traits.Hashtags)

	assert.Equal(t, 2.5, traits.Averages.WordCount)
	assert.Equal(t, "1.50", traits.Averages.HashtagsPerPost)
	assert.Equal(t, "50.0%", traits.Averages.LinkRate)
	assert.Equal(t, "50.0%", traits.Averages.MentionRate)
}

func TestSummarizeTraits_TopFiveHashtags(t *testing.T) {
	posts := []*models.Post{
		{Hashtags: []string{"a", "b", "c", "d", "e", "f"}},
		{Hashtags: []string{"f"}},
	}

	traits := SummarizeTraits(posts, categorize.DefaultRuleset())

	// "f" leads on count; the remaining four slots go to the earliest
	// seen among the tied tags.
	assert.Equal(t, map[string]int{"f": 2, "a": 1, "b": 1, "c": 1, "d": 1}, traits.Hashtags)
}

func TestSummarizeTraits_SingleLinkPost(t *testing.T) {
	posts := []*models.Post{
		{Text: "see https://example.com", ContainsLink: true, WordCount: 2, CreatedAt: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}

	traits := SummarizeTraits(posts, categorize.DefaultRuleset())

	assert.Equal(t, "100.0%", traits.Averages.LinkRate)
	assert.Equal(t, "0.0%", traits.Averages.MentionRate)
	assert.Equal(t, "0.00", traits.Averages.HashtagsPerPost)
}
