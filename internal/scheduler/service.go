package scheduler

import (
	"github.com/pagepulse/post-insights/internal/config"
	"github.com/pagepulse/post-insights/internal/insights"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service schedules the periodic insights runs
type Service struct {
	config          *config.Config
	insightsService *insights.Service
	cron            *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, insightsService *insights.Service) *Service {
	return &Service{
		config:          cfg,
		insightsService: insightsService,
		cron:            cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled analysis runs
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.ReportSchedule {
	case "daily":
		// Run daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	case "weekly":
		// Run weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	default:
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled insights run")
		if err := s.insightsService.RunAnalysis(); err != nil {
			logrus.Errorf("Scheduled insights run failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.ReportSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
