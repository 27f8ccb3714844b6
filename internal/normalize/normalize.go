package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	hashtagPattern = regexp.MustCompile(`#[\w-]+`)
	linkPattern    = regexp.MustCompile(`https?://`)
)

// Epoch values below this are assumed to be seconds rather than
// milliseconds. Old exports used seconds, newer ones milliseconds.
const millisCutoff = 1e12

// Normalize maps one raw export record onto the canonical Post model.
// It tolerates missing and renamed fields and returns nil when a record
// is too malformed to salvage; a nil result drops the record, it never
// aborts the batch.
func Normalize(raw map[string]any) (post *models.Post) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("Dropping malformed record: %v", r)
			post = nil
		}
	}()

	if raw == nil {
		return nil
	}

	text := extractText(raw)

	return &models.Post{
		ID:              extractID(raw),
		Author:          stringField(raw, "author"),
		Text:            text,
		Hashtags:        extractHashtags(raw, text),
		LifecycleState:  firstString(raw, "PUBLISHED", lifecycleExtractors),
		MediaType:       firstString(raw, "", mediaTypeExtractors),
		Visibility:      firstString(raw, "PUBLIC", visibilityExtractors),
		CreatedAt:       extractCreatedAt(raw),
		ContainsLink:    linkPattern.MatchString(text),
		ContainsMention: strings.Contains(text, "@"),
		WordCount:       len(strings.Fields(text)),
		Stats:           ExtractStats(raw),
	}
}

// stringExtractor tries one known location of a logical field and
// reports whether it resolved. Each field keeps an ordered list of
// these; the first hit wins.
type stringExtractor func(raw map[string]any) (string, bool)

var textExtractors = []stringExtractor{
	// /rest/posts: a plain string body.
	func(raw map[string]any) (string, bool) {
		s, ok := raw["text"].(string)
		return s, ok
	},
	// /rest/posts with a wrapped body: {"text": {"text": "..."}}.
	func(raw map[string]any) (string, bool) {
		inner, ok := raw["text"].(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := inner["text"].(string)
		return s, ok
	},
	// legacy /ugcPosts share commentary.
	func(raw map[string]any) (string, bool) {
		s, ok := dig(raw, "specificContent", "com.linkedin.ugc.ShareContent", "shareCommentary", "text").(string)
		return s, ok
	},
}

var lifecycleExtractors = []stringExtractor{
	func(raw map[string]any) (string, bool) {
		s, ok := raw["lifecycleState"].(string)
		return s, ok && s != ""
	},
}

var mediaTypeExtractors = []stringExtractor{
	func(raw map[string]any) (string, bool) {
		media, ok := dig(raw, "content", "media").([]any)
		if !ok || len(media) == 0 {
			return "", false
		}
		entry, ok := media[0].(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := entry["mediaType"].(string)
		return s, ok && s != ""
	},
	func(raw map[string]any) (string, bool) {
		s, ok := dig(raw, "content", "mediaType").(string)
		return s, ok && s != ""
	},
	func(raw map[string]any) (string, bool) {
		s, ok := dig(raw, "specificContent", "com.linkedin.ugc.ShareContent", "shareMediaCategory").(string)
		return s, ok && s != ""
	},
}

var visibilityExtractors = []stringExtractor{
	func(raw map[string]any) (string, bool) {
		s, ok := raw["visibility"].(string)
		return s, ok && s != ""
	},
	func(raw map[string]any) (string, bool) {
		s, ok := dig(raw, "visibility", "com.linkedin.ugc.MemberNetworkVisibility").(string)
		return s, ok && s != ""
	},
}

func extractText(raw map[string]any) string {
	return strings.TrimSpace(firstString(raw, "", textExtractors))
}

func extractHashtags(raw map[string]any, text string) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	// Explicit hashtag list, when the export carries one.
	if explicit, ok := dig(raw, "content", "hashtags").([]any); ok {
		for _, entry := range explicit {
			if tag, ok := entry.(string); ok {
				add(tag)
			}
		}
	}

	// Inline tags scraped from the body.
	for _, match := range hashtagPattern.FindAllString(text, -1) {
		add(match)
	}

	return tags
}

func extractCreatedAt(raw map[string]any) time.Time {
	for _, key := range []string{"createdAt", "created", "firstPublishedAt"} {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if ts := parseTimestamp(value); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func parseTimestamp(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case map[string]any:
		// /rest/posts wraps the epoch: {"time": 1704931200000}.
		if n, ok := asNumber(v["time"]); ok {
			return fromEpoch(n)
		}
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts.UTC()
			}
		}
	default:
		if n, ok := asNumber(value); ok {
			return fromEpoch(n)
		}
	}
	return time.Time{}
}

func fromEpoch(n float64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n < millisCutoff {
		n *= 1000
	}
	return time.UnixMilli(int64(n)).UTC()
}

func extractID(raw map[string]any) string {
	for _, key := range []string{"id", "urn", "postUrn"} {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return uuid.New().String()
}

// firstString runs the extractors in order and returns the first hit,
// falling back to def when nothing resolves.
func firstString(raw map[string]any, def string, extractors []stringExtractor) string {
	for _, extract := range extractors {
		if s, ok := extract(raw); ok {
			return s
		}
	}
	return def
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// dig walks nested maps by key and returns the value at the end of the
// path, or nil if any hop is missing or not a map.
func dig(raw map[string]any, path ...string) any {
	var current any = raw
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}
