package ingest

import (
	"encoding/json"

	"github.com/pagepulse/post-insights/internal/models"
	"github.com/pagepulse/post-insights/internal/normalize"
	"github.com/sirupsen/logrus"
)

// envelope matches the wrapper objects exports come in. API responses
// wrap the records in "elements", some archive dumps in "posts".
type envelope struct {
	Elements []map[string]any `json:"elements"`
	Posts    []map[string]any `json:"posts"`
}

// Records extracts the raw post records from export JSON: either a
// bare array, or an object wrapping the array under "elements" or
// "posts". Anything else yields zero records rather than an error.
func Records(data []byte) []map[string]any {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err == nil {
		return records
	}

	var wrapped envelope
	if err := json.Unmarshal(data, &wrapped); err != nil {
		logrus.Warnf("Export input is not a record array or a known wrapper: %v", err)
		return nil
	}
	if wrapped.Elements != nil {
		return wrapped.Elements
	}
	return wrapped.Posts
}

// Posts normalizes raw records into canonical posts. Records too
// malformed to normalize are dropped and counted; the batch itself
// never fails.
func Posts(records []map[string]any) (posts []*models.Post, dropped int) {
	for _, record := range records {
		post := normalize.Normalize(record)
		if post == nil {
			dropped++
			continue
		}
		posts = append(posts, post)
	}
	if dropped > 0 {
		logrus.Warnf("Dropped %d of %d records during normalization", dropped, len(records))
	}
	return posts, dropped
}

// Load is the one-call path from export JSON to canonical posts.
func Load(data []byte) ([]*models.Post, int) {
	return Posts(Records(data))
}
