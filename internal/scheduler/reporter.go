package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/mystery-threads/internal/metrics"
	"github.com/ErlanBelekov/mystery-threads/internal/repository"
	"github.com/robfig/cron/v3"
)

// Reporter periodically copies store totals into the users and
// messages_stored gauges.
type Reporter struct {
	repo   repository.StatsRepository
	cron   *cron.Cron
	logger *slog.Logger
}

// NewReporter parses spec eagerly so a bad STATS_SCHEDULE fails at startup.
// spec accepts standard five-field expressions and descriptors like "@every 1m".
func NewReporter(repo repository.StatsRepository, spec string, logger *slog.Logger) (*Reporter, error) {
	r := &Reporter{
		repo:   repo,
		cron:   cron.New(),
		logger: logger.With("component", "stats_reporter"),
	}
	if _, err := r.cron.AddFunc(spec, func() { r.Collect(context.Background()) }); err != nil {
		return nil, fmt.Errorf("parse stats schedule %q: %w", spec, err)
	}
	return r, nil
}

// Start collects once, then runs on the schedule until ctx is cancelled.
func (r *Reporter) Start(ctx context.Context) {
	r.logger.Info("stats reporter started")
	r.Collect(ctx)

	r.cron.Start()
	<-ctx.Done()

	// wait for an in-flight collection
	<-r.cron.Stop().Done()
	r.logger.Info("stats reporter shut down")
}

func (r *Reporter) Collect(ctx context.Context) {
	totals, err := r.repo.Totals(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "collect totals", "error", err)
		return
	}

	metrics.Users.WithLabelValues("verified").Set(float64(totals.VerifiedUsers))
	metrics.Users.WithLabelValues("unverified").Set(float64(totals.UnverifiedUsers))
	metrics.MessagesStored.Set(float64(totals.Messages))

	r.logger.DebugContext(ctx, "totals collected",
		"verified_users", totals.VerifiedUsers,
		"unverified_users", totals.UnverifiedUsers,
		"messages", totals.Messages,
	)
}
