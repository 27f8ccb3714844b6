package models

import "time"

// Post is the canonical representation of a single social post after
// normalization. Raw export records come in several historical shapes;
// everything downstream only ever sees this struct.
type Post struct {
	ID              string    `json:"id"`
	Author          string    `json:"author"`
	Text            string    `json:"text"`
	Hashtags        []string  `json:"hashtags"` // lowercase, no '#', deduplicated
	LifecycleState  string    `json:"lifecycle_state"`
	MediaType       string    `json:"media_type,omitempty"`
	Visibility      string    `json:"visibility"`
	CreatedAt       time.Time `json:"created_at"`
	ContainsLink    bool      `json:"contains_link"`
	ContainsMention bool      `json:"contains_mention"`
	WordCount       int       `json:"word_count"`
	Stats           Stats     `json:"stats"`
}

// Weekday returns the English weekday name of the post's creation time.
func (p *Post) Weekday() string {
	return p.CreatedAt.Weekday().String()
}

// Stats holds the normalized engagement counters for a post.
type Stats struct {
	Likes             float64 `json:"likes"`
	Comments          float64 `json:"comments"`
	Shares            float64 `json:"shares"`
	Clicks            float64 `json:"clicks"`
	Impressions       float64 `json:"impressions"`
	TotalInteractions float64 `json:"total_interactions"`
	EngagementRate    float64 `json:"engagement_rate"`
}

// CategorizedPost pairs a post with the categories it matched, in
// ruleset order.
type CategorizedPost struct {
	Post       *Post    `json:"post"`
	Categories []string `json:"categories"`
}

// AnalysisOptions control a single analysis run. Out-of-range values
// are clamped, never rejected.
type AnalysisOptions struct {
	TopN         int `json:"top_n"`
	LookbackDays int `json:"lookback_days"`
}

// AnalysisResult is the full outcome of one analysis run. It is built
// fresh per run and handed to the presentation layer as-is.
type AnalysisResult struct {
	Since              time.Time         `json:"since"`
	Until              time.Time         `json:"until"`
	TotalPostsFetched  int               `json:"total_posts_fetched"`
	TotalPostsAnalyzed int               `json:"total_posts_analyzed"`
	CategorizedPosts   []CategorizedPost `json:"categorized_posts"`
	CategoryCounts     map[string]int    `json:"category_counts"`
	TopPosts           []*Post           `json:"top_posts"`
	Traits             Traits            `json:"traits"`
}

// Traits summarizes what the top-performing posts have in common.
type Traits struct {
	Categories map[string]float64 `json:"categories"`
	MediaTypes map[string]float64 `json:"media_types"`
	Days       map[string]float64 `json:"days"`
	Hashtags   map[string]int     `json:"hashtags"`
	Averages   TraitAverages      `json:"averages"`
}

// TraitAverages holds the numeric averages over the top posts. The
// hashtag average and the link/mention rates are pre-formatted strings
// so reports render them consistently.
type TraitAverages struct {
	WordCount       float64 `json:"word_count"`
	HashtagsPerPost string  `json:"hashtags_per_post"`
	LinkRate        string  `json:"link_rate"`
	MentionRate     string  `json:"mention_rate"`
}
