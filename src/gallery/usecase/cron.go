package usecase

import (
	"context"

	cron_adapter "github.com/MMN3003/minter/src/gallery/adapter/cron"
	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var (
	CacheSweepCronID = uuid.MustParse("8f0c2a4e-5d1b-4c7a-9e3f-2b6d8a1c0e50")
)

const cacheSweepJob = "metadata-cache-sweep"

// NewCronService sweeps the metadata cache once right away and, when schedule
// is non-empty, again on that schedule (six fields, seconds first).
func NewCronService(c *cron.Cron, m domain.MetadataUsecase, ca cron_adapter.CronAdapter, logg *logger.Logger, schedule string) error {
	ctx := context.Background()
	// a run killed mid-sweep leaves its lock row behind
	if err := ca.DeleteCron(ctx, CacheSweepCronID); err != nil {
		logg.Errorf("clear %s lock: %v", cacheSweepJob, err)
	}
	handleCacheSweep(ctx, m, ca, logg)

	if schedule == "" {
		return nil
	}
	_, err := c.AddFunc(schedule, func() {
		handleCacheSweep(context.Background(), m, ca, logg)
	})
	return err
}

func handleCacheSweep(ctx context.Context, m domain.MetadataUsecase, ca cron_adapter.CronAdapter, logg *logger.Logger) {
	err := ca.CreateCron(ctx, CacheSweepCronID, cacheSweepJob)
	if err != nil {
		return
	}
	if _, err := m.EvictExpired(ctx); err != nil {
		logg.Errorf("EvictExpired err: %v", err)
	}

	err = ca.DeleteCron(ctx, CacheSweepCronID)
	if err != nil {
		logg.Errorf("release %s lock: %v", cacheSweepJob, err)
	}
}
