package scheduler

import (
	"sync"

	"github.com/roylee0704/gron"

	"cpd/internal/providers"
	"cpd/internal/scheduler/interfaces"
	"cpd/internal/services"
	"cpd/internal/structures"
)

// Scheduler keeps successful dashboard entries fresh. Errored entries are
// left alone until the user retries them.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	board   services.DashboardServiceInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
	started bool
}

func (s *Scheduler) Init() {
	interval := s.config.Refresh.Interval
	if interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Periodic refresh disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), s.RunOnce)
	s.cron.Start()
	s.started = true
	s.logger.Infof(providers.TypeApp, "Periodic refresh every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil && s.started {
		s.cron.Stop()
		s.started = false
	}
}

func (s *Scheduler) RunOnce() {
	if !s.opsMu.TryLock() {
		s.logger.Debugf(providers.TypeApp, "Previous refresh still running, skipping")
		return
	}
	defer s.opsMu.Unlock()

	if !s.board.Onboarded() {
		return
	}
	s.logger.Debugf(providers.TypeApp, "Refreshing dashboard...")
	s.board.RefreshSucceeded()
}

func NewScheduler(config *structures.Config, logger providers.Logger, board services.DashboardServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		board:  board,
	}
}
