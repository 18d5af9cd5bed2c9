package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"trahy/booking-service/internal/app/booking/entity"
	"trahy/booking-service/internal/app/booking/service"
	"trahy/pkg/logger"
	"trahy/pkg/metrics"

	"github.com/gammazero/workerpool"
	"github.com/robfig/cron/v3"
)

// ExpiryScheduler periodically cancels bookings that stayed unpaid for too long.
type ExpiryScheduler struct {
	cron       *cron.Cron
	bookingSvc service.BookingServiceInterface
	after      time.Duration
	workers    int
}

// ExpiryStats summarises one expiry run.
type ExpiryStats struct {
	Found     int
	Cancelled int
	Skipped   int
	Failed    int
}

func NewExpiryScheduler(bookingSvc service.BookingServiceInterface, after time.Duration, workers int) *ExpiryScheduler {
	if workers < 1 {
		workers = 1
	}

	c := cron.New(cron.WithLogger(cronLogger{}))

	return &ExpiryScheduler{
		cron:       c,
		bookingSvc: bookingSvc,
		after:      after,
		workers:    workers,
	}
}

func (s *ExpiryScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Dur("after", s.after).Msg("Starting booking expiry scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		stats, err := s.RunOnce(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Booking expiry run failed")
			return
		}
		logger.Info().
			Int("found", stats.Found).
			Int("cancelled", stats.Cancelled).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("Booking expiry run completed")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// RunOnce cancels every pending_payment booking created before now minus the
// configured age. Bookings paid or cancelled after the listing are skipped.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) (ExpiryStats, error) {
	cutoff := time.Now().UTC().Add(-s.after)

	bookings, err := s.bookingSvc.ListUnpaidCreatedBefore(ctx, cutoff)
	if err != nil {
		return ExpiryStats{}, err
	}

	var cancelled, skipped, failed atomic.Int64

	wp := workerpool.New(s.workers)
	for _, booking := range bookings {
		wp.Submit(func() {
			s.expire(ctx, booking, &cancelled, &skipped, &failed)
		})
	}
	wp.StopWait()

	return ExpiryStats{
		Found:     len(bookings),
		Cancelled: int(cancelled.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

func (s *ExpiryScheduler) expire(ctx context.Context, booking entity.Booking, cancelled, skipped, failed *atomic.Int64) {
	_, err := s.bookingSvc.ExpireUnpaid(ctx, booking.ID)
	switch {
	case err == nil:
		cancelled.Add(1)
		metrics.BookingsExpired.WithLabelValues("cancelled").Inc()
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrNotFound):
		skipped.Add(1)
		metrics.BookingsExpired.WithLabelValues("skipped").Inc()
	default:
		failed.Add(1)
		metrics.BookingsExpired.WithLabelValues("failed").Inc()
		logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("Failed to expire booking")
	}
}

func (s *ExpiryScheduler) Stop() {
	logger.Info().Msg("Stopping booking expiry scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Booking expiry scheduler stopped")
}

func (s *ExpiryScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

// cronLogger routes cron's own diagnostics into the service log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
