package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	baseURL       = "https://api.linkedin.com/rest"
	pageSize      = 100
	maxRetries    = 3
	callInterval  = 200 * time.Millisecond
	defaultAPIVer = "202401"
)

// Client wraps the LinkedIn REST API endpoints the service needs:
// organization posts and per-post social actions. It hands back raw
// records; normalization is the core's job.
type Client struct {
	accessToken string
	apiVersion  string
	client      *resty.Client
}

// APIError is returned when LinkedIn responds with an error payload
// after retries are exhausted.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin API error %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a LinkedIn client. An empty API version selects
// the default pinned version.
func NewClient(accessToken, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = defaultAPIVer
	}
	return &Client{
		accessToken: accessToken,
		apiVersion:  apiVersion,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "Post-Insights-Bot/1.0"),
	}
}

// IsEnabled reports whether the client has credentials to work with.
func (c *Client) IsEnabled() bool {
	return c.accessToken != ""
}

// FetchPosts returns up to limit raw post records authored by the
// organization, newest first, following pagination.
func (c *Client) FetchPosts(ctx context.Context, organizationURN string, limit int) ([]map[string]any, error) {
	var collected []map[string]any
	start := 0

	for len(collected) < limit {
		batch := limit - len(collected)
		if batch > pageSize {
			batch = pageSize
		}

		payload, err := c.request(ctx, "posts", map[string]string{
			"q":              "author",
			"author":         organizationURN,
			"start":          fmt.Sprintf("%d", start),
			"count":          fmt.Sprintf("%d", batch),
			"lifecycleState": "PUBLISHED",
			"sortBy":         "LAST_MODIFIED",
		})
		if err != nil {
			return nil, err
		}

		elements := elementsOf(payload)
		logrus.Debugf("Fetched %d posts from LinkedIn (offset %d)", len(elements), start)
		collected = append(collected, elements...)

		if !hasNextPage(payload) || len(elements) == 0 {
			break
		}
		start += len(elements)

		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		case <-time.After(callInterval):
		}
	}

	return collected, nil
}

// HydrateEngagement fetches social actions for each record and folds
// the counters into the record under "stats", where the stats
// extractor expects them. Records without a resolvable URN are passed
// through untouched.
func (c *Client) HydrateEngagement(ctx context.Context, records []map[string]any) ([]map[string]any, error) {
	for _, record := range records {
		urn := recordURN(record)
		if urn == "" {
			continue
		}

		payload, err := c.request(ctx, "socialActions/"+url.QueryEscape(urn), nil)
		if err != nil {
			logrus.Warnf("Failed to hydrate engagement for %s: %v", urn, err)
			continue
		}
		record["stats"] = flattenSocialActions(payload)

		select {
		case <-ctx.Done():
			return records, ctx.Err()
		case <-time.After(callInterval):
		}
	}
	return records, nil
}

func (c *Client) request(ctx context.Context, path string, params map[string]string) (map[string]any, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req := c.client.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+c.accessToken).
			SetHeader("LinkedIn-Version", c.apiVersion).
			SetHeader("X-Restli-Protocol-Version", "2.0.0")
		if params != nil {
			req.SetQueryParams(params)
		}

		resp, err := req.Get(baseURL + "/" + path)
		if err != nil {
			return nil, fmt.Errorf("linkedin request failed: %w", err)
		}

		if resp.StatusCode() < 400 {
			var payload map[string]any
			if err := json.Unmarshal(resp.Body(), &payload); err != nil {
				return nil, fmt.Errorf("failed to parse LinkedIn response: %w", err)
			}
			return payload, nil
		}

		if retryable(resp.StatusCode()) && attempt < maxRetries {
			logrus.Warnf("LinkedIn API error %d, retrying (%d/%d)", resp.StatusCode(), attempt, maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * callInterval):
			}
			continue
		}

		return nil, &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	return nil, &APIError{StatusCode: 500, Body: "exceeded retry budget"}
}

func retryable(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

func elementsOf(payload map[string]any) []map[string]any {
	raw, _ := payload["elements"].([]any)
	elements := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if record, ok := entry.(map[string]any); ok {
			elements = append(elements, record)
		}
	}
	return elements
}

func hasNextPage(payload map[string]any) bool {
	paging, _ := payload["paging"].(map[string]any)
	links, _ := paging["links"].([]any)
	for _, entry := range links {
		if link, ok := entry.(map[string]any); ok && link["rel"] == "next" {
			return true
		}
	}
	return false
}

func recordURN(record map[string]any) string {
	for _, key := range []string{"id", "urn"} {
		if s, ok := record[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// flattenSocialActions maps the socialActions summary payload onto the
// flat counter names the normalizer understands. Reactions stand in
// for likes when the likes summary is missing.
func flattenSocialActions(payload map[string]any) map[string]any {
	reactions := number(payload, "reactionsSummary", "aggregatedTotal")
	likes := number(payload, "likesSummary", "aggregatedTotal")
	if likes == 0 {
		likes = reactions
	}

	return map[string]any{
		"likes":       likes,
		"comments":    number(payload, "commentsSummary", "totalFirstLevelComments"),
		"shares":      number(payload, "sharesSummary", "shareCount"),
		"clicks":      number(payload, "clicksSummary", "organicClicks", "clicks"),
		"impressions": number(payload, "impressionsSummary", "organicImpressions", "impressionsCount"),
	}
}

func number(payload map[string]any, path ...string) float64 {
	var current any = payload
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return 0
		}
		current = m[key]
	}
	n, _ := current.(float64)
	return n
}
