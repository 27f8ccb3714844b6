package notifications

import "github.com/pagepulse/post-insights/internal/models"

// NotificationInterface defines the contract for delivering analysis reports
type NotificationInterface interface {
	SendReport(result *models.AnalysisResult) error
}
