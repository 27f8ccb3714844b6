package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pagepulse/post-insights/internal/config"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/pagepulse/post-insights/internal/report"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service delivers analysis reports via the configured channels:
// an incoming webhook, email, or both.
type Service struct {
	config *config.Config
	client *resty.Client
}

var _ NotificationInterface = (*Service)(nil)

// WebhookMessage is the MessageCard payload posted to the webhook.
type WebhookMessage struct {
	Type     string           `json:"@type"`
	Context  string           `json:"@context"`
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Sections []WebhookSection `json:"sections,omitempty"`
}

type WebhookSection struct {
	ActivityTitle string        `json:"activityTitle,omitempty"`
	ActivityText  string        `json:"activityText,omitempty"`
	Facts         []WebhookFact `json:"facts,omitempty"`
	Markdown      bool          `json:"markdown,omitempty"`
}

type WebhookFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport sends an analysis report via every configured channel.
// Per-channel failures are collected so one broken channel does not
// silence the others.
func (s *Service) SendReport(result *models.AnalysisResult) error {
	var errors []string

	if s.config.WebhookURL != "" {
		if err := s.sendToWebhook(result); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Sent report to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(result); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(result *models.AnalysisResult) error {
	message := s.buildWebhookMessage(result)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to post webhook message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildWebhookMessage(result *models.AnalysisResult) *WebhookMessage {
	message := &WebhookMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   "Post Performance Report",
		Text: fmt.Sprintf("Analyzed %d of %d posts between %s and %s",
			result.TotalPostsAnalyzed, result.TotalPostsFetched,
			result.Since.Format("2006-01-02"), result.Until.Format("2006-01-02")),
	}

	facts := []WebhookFact{
		{Name: "Posts Analyzed", Value: fmt.Sprintf("%d", result.TotalPostsAnalyzed)},
		{Name: "Posts Fetched", Value: fmt.Sprintf("%d", result.TotalPostsFetched)},
	}
	for _, category := range sortedCategories(result.CategoryCounts) {
		facts = append(facts, WebhookFact{
			Name:  fmt.Sprintf("%s posts", category),
			Value: fmt.Sprintf("%d", result.CategoryCounts[category]),
		})
	}
	message.Sections = append(message.Sections, WebhookSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(result.TopPosts) > 0 {
		var lines []string
		for i, post := range result.TopPosts {
			lines = append(lines, fmt.Sprintf("**%d.** %s | engagement %.4f | %.0f interactions",
				i+1, post.CreatedAt.Format("Jan 2"), post.Stats.EngagementRate,
				post.Stats.TotalInteractions))
		}
		message.Sections = append(message.Sections, WebhookSection{
			ActivityTitle: "Top Posts",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(result *models.AnalysisResult) error {
	subject := fmt.Sprintf("Post Performance Report (%d posts analyzed)", result.TotalPostsAnalyzed)

	htmlBody, err := s.buildEmailHTML(result)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", report.RenderText(result))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailHTML(result *models.AnalysisResult) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Post Performance Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0a66c2; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .post { border-left: 4px solid #0a66c2; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .post-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Post Performance Report</h1>
        <p>{{.Since.Format "January 2, 2006"}} to {{.Until.Format "January 2, 2006"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Posts Analyzed:</strong> {{.TotalPostsAnalyzed}} of {{.TotalPostsFetched}} fetched</p>
    </div>

    {{if .TopPosts}}
    <h2>Top Posts</h2>
    {{range $index, $post := .TopPosts}}
        <div class="post">
            <div class="post-meta">
                {{$post.CreatedAt.Format "Jan 2, 2006"}} | Engagement {{printf "%.4f" $post.Stats.EngagementRate}} | {{printf "%.0f" $post.Stats.TotalInteractions}} interactions
            </div>
            {{if $post.Text}}
            <p>{{$post.Text | truncate 200}}</p>
            {{end}}
        </div>
    {{end}}
    {{else}}
    <p>No posts in the selected window. Widen the lookback and retry.</p>
    {{end}}

    <hr>
    <p><small>This report was generated automatically by the Post Insights bot.</small></p>
</body>
</html>
`

	t := template.New("email").Funcs(template.FuncMap{
		"truncate": func(length int, s string) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, result); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func sortedCategories(counts map[string]int) []string {
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > 5 {
		categories = categories[:5]
	}
	return categories
}
