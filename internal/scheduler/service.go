package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rainmakercorp/brand-pulse/internal/config"
	"github.com/rainmakercorp/brand-pulse/internal/pipeline"
)

// Service handles scheduling of pipeline runs
type Service struct {
	config          *config.Config
	pipelineService *pipeline.Service
	cron            *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipelineService *pipeline.Service) *Service {
	return &Service{
		config:          cfg,
		pipelineService: pipelineService,
		cron:            cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled runs: the daily pipeline at 9 AM UTC and, if
// enabled, a risk check every 4 hours.
func (s *Service) Start() error {
	_, err := s.cron.AddFunc("0 0 9 * * *", func() {
		logrus.Info("Starting scheduled daily run")
		if err := s.pipelineService.Run(); err != nil {
			logrus.Errorf("Scheduled daily run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	if s.config.EnableRiskChecks {
		_, err = s.cron.AddFunc("0 0 */4 * * *", func() {
			logrus.Info("Starting scheduled risk check")
			if err := s.pipelineService.RunRiskCheck(); err != nil {
				logrus.Errorf("Scheduled risk check failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	logrus.Info("Scheduler started (daily run at 09:00 UTC, risk checks every 4 hours)")
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
