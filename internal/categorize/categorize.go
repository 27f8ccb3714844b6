package categorize

import (
	"strings"

	"github.com/pagepulse/post-insights/internal/models"
)

// FallbackCategory is assigned when no rule matches a post.
const FallbackCategory = "general"

// Rule maps one category to the keywords that select it. Keywords are
// stored lowercase.
type Rule struct {
	Name     string
	Keywords []string
}

// Ruleset is an ordered list of rules. Order matters: categories are
// assigned and reported in rule order, which keeps results
// reproducible across runs.
type Ruleset []Rule

// DefaultRuleset returns the built-in category rules. Callers get a
// fresh copy so concurrent runs never share state.
func DefaultRuleset() Ruleset {
	return Ruleset{
		{Name: "sustainability", Keywords: []string{"sustain", "circular", "climate", "recycl", "eco"}},
		{Name: "innovation", Keywords: []string{"innovation", "launch", "product", "solution", "ai", "prototype"}},
		{Name: "events", Keywords: []string{"event", "conference", "expo", "webinar", "booth", "panel"}},
		{Name: "awards", Keywords: []string{"award", "recognition", "won", "shortlist", "honor", "prize"}},
		{Name: "partnerships", Keywords: []string{"partner", "collaborat", "together", "alliance"}},
		{Name: "hiring", Keywords: []string{"hiring", "career", "role", "join our team", "apply"}},
		{Name: "thought_leadership", Keywords: []string{"insight", "report", "whitepaper", "guide", "blog"}},
		{Name: "packaging", Keywords: []string{"packag", "design", "material", "bottle", "reusable"}},
	}
}

// Categorize assigns a post to every matching category, in rule order.
// A keyword matches when it is a substring of the lowercased post text
// or of any hashtag. Posts that match nothing get the fallback
// category, so the result is never empty.
func Categorize(post *models.Post, rules Ruleset) []string {
	text := strings.ToLower(post.Text)
	var matches []string

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			keyword = strings.TrimSpace(strings.ToLower(keyword))
			if keyword == "" {
				continue
			}
			if strings.Contains(text, keyword) || matchesHashtag(post.Hashtags, keyword) {
				matches = append(matches, rule.Name)
				break
			}
		}
	}

	if len(matches) == 0 {
		matches = append(matches, FallbackCategory)
	}

	return matches
}

// CategorizeAll categorizes every post and tallies how often each
// category occurs. A post contributes to every category it belongs to,
// so counts can sum to more than the post count.
func CategorizeAll(posts []*models.Post, rules Ruleset) ([]models.CategorizedPost, map[string]int) {
	categorized := make([]models.CategorizedPost, 0, len(posts))
	counts := make(map[string]int)

	for _, post := range posts {
		categories := Categorize(post, rules)
		categorized = append(categorized, models.CategorizedPost{Post: post, Categories: categories})
		for _, category := range categories {
			counts[category]++
		}
	}

	return categorized, counts
}

func matchesHashtag(hashtags []string, keyword string) bool {
	for _, tag := range hashtags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return false
}
