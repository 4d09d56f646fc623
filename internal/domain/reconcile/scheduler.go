package reconcile

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the audit on a cron schedule
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers svc.Run under schedule (standard cron or @every descriptors).
// An empty schedule returns nil, nil.
func NewScheduler(svc *Service, schedule string) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if _, err := svc.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("reconcile run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("reconcile scheduler started")
}

// Stop waits for a running audit to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
