package cron

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/mileusna/crontab"
)

type BookingCompleter interface {
	CompletePastBookings(ctx context.Context, now time.Time) (int, error)
}

type CacheHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type CronService struct {
	Bookings BookingCompleter
	Cache    CacheHealthChecker
}

func NewService(bookings BookingCompleter, cacheHealth CacheHealthChecker) *CronService {
	return &CronService{
		Bookings: bookings,
		Cache:    cacheHealth,
	}
}

// Start schedules the background jobs. Configuration is loaded once at
// process start and request goroutines read it without locking, so no job
// rewrites it.
func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) {
	cs.completePastBookings(ctx)

	ctab.MustAddJob("*/5 * * * *", func() {
		cs.completePastBookings(ctx)
	})
	ctab.MustAddJob("* * * * *", func() {
		cs.everyMinute(ctx)
	})
}

func (cs *CronService) everyMinute(ctx context.Context) {
	cs.checkCache(ctx)
}

func (cs *CronService) completePastBookings(ctx context.Context) {
	if cs == nil || cs.Bookings == nil {
		return
	}
	n, err := cs.Bookings.CompletePastBookings(ctx, time.Now().UTC())
	if err != nil {
		logger.GetLogger().Warnf("cron service: failed to complete past bookings: %v", err)
		return
	}
	if n > 0 {
		logger.GetLogger().Infof("cron service: completed %d past bookings", n)
	}
}

func (cs *CronService) checkCache(ctx context.Context) {
	if cs == nil || cs.Cache == nil {
		return
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cs.Cache.HealthCheck(checkCtx); err != nil {
		logger.GetLogger().Warnf("cron service: cache store unhealthy: %v", err)
	}
}
