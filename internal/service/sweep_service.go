package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds how many templates one sweep extends in parallel.
const sweepConcurrency = 4

// SweepService extends every active recurring template to the generation
// horizon. It backs the periodic background sweep and runs once at startup,
// so a server that was down past a generation date catches up on boot.
type SweepService struct {
	recurringService *RecurringService

	// horizonMonths is how far ahead of "now" templates are materialized.
	horizonMonths int

	// now is injectable for tests.
	now func() time.Time
}

// NewSweepService creates a new SweepService over the given recurring service.
func NewSweepService(recurringService *RecurringService, horizonMonths int) *SweepService {
	return &SweepService{
		recurringService: recurringService,
		horizonMonths:    horizonMonths,
		now:              time.Now,
	}
}

// Horizon returns the current generation horizon: today plus the configured
// number of months.
func (s *SweepService) Horizon() time.Time {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, s.horizonMonths, 0)
}

// Run extends all active templates to the horizon. Templates are processed
// concurrently with bounded parallelism; per-template locking in the
// recurring service keeps each generation serialized with API writes. The
// first error cancels the remaining work.
func (s *SweepService) Run(ctx context.Context) error {
	templates, err := s.recurringService.List(true)
	if err != nil {
		return err
	}

	horizon := s.Horizon()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, tmpl := range templates {
		tmpl := tmpl
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, err := s.recurringService.GenerateUpcoming(ctx, tmpl.ID, horizon)
			return err
		})
	}
	return g.Wait()
}

// RunLogged runs a sweep and logs the outcome. Used as the cron entry point,
// where there is no caller to return an error to.
func (s *SweepService) RunLogged(ctx context.Context) {
	start := time.Now()
	if err := s.Run(ctx); err != nil {
		log.Printf("recurring sweep failed: %v", err)
		return
	}
	log.Printf("recurring sweep completed in %s", time.Since(start))
}
