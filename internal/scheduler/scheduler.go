package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/config"
	"github.com/dairydesk/backend/internal/repository/sheets"
	"github.com/dairydesk/backend/internal/service/notify"
	"github.com/dairydesk/backend/internal/service/reporting"
)

// Scheduler runs the daily digest job: compose the dashboard summary, send
// it over WhatsApp and mirror it to the configured sheet. Either sink may be
// nil when its feature is not configured.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	notifySvc    *notify.Service
	mirror       sheets.Mirror
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, notifySvc *notify.Service, mirror sheets.Mirror, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		reportingSvc: reportingSvc,
		notifySvc:    notifySvc,
		mirror:       mirror,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.DigestCronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.DigestCronSchedule, s.runDailyDigest); err != nil {
		s.logger.Error("failed to schedule daily digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.DashboardSummary(ctx, reporting.PeriodWeekly, "", time.Now())
	if err != nil {
		s.logger.Error("failed to compose daily digest", zap.Error(err))
		return
	}

	if s.notifySvc != nil {
		if err := s.notifySvc.SendDailyDigest(ctx, summary); err != nil {
			s.logger.Error("failed to send daily digest", zap.Error(err))
		}
	}

	if s.mirror != nil {
		if err := s.mirror.AppendDigest(ctx, summary); err != nil {
			s.logger.Error("failed to mirror daily digest", zap.Error(err))
		}
	}
}
