package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"reviewhub/internal/review"
	"reviewhub/internal/summarizer"
)

const (
	HourlyBackfillSpec    = "0 * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	backfillTimeout       = 10 * time.Minute
	backfillBatchSize     = 50
)

// Scheduler periodically generates summaries for reviews that were
// created while the provider was down or unconfigured.
type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	reviews *review.Service
	log     *slog.Logger
}

func New(ctx context.Context, reviews *review.Service, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		reviews: reviews,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(HourlyBackfillSpec, s.backfillSummaries); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) backfillSummaries() {
	ctx, cancel := context.WithTimeout(s.ctx, backfillTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	generated, err := s.reviews.BackfillSummaries(ctx, backfillBatchSize)
	if err != nil {
		if errors.Is(err, summarizer.ErrNotConfigured) {
			s.log.InfoContext(ctx, "Skipping summary backfill, no provider configured")
			return
		}

		s.log.ErrorContext(ctx, "Failed to backfill summaries",
			"error", err,
			"generated", generated)
		return
	}

	if generated > 0 {
		s.log.InfoContext(ctx, "Backfilled summaries",
			"generated", generated)
	}
}
