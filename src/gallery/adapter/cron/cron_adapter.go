package cron

import (
	"context"

	"github.com/MMN3003/minter/src/cron/domain"
	"github.com/google/uuid"
)

type CronAdapter interface {
	CreateCron(ctx context.Context, id uuid.UUID, name string) error
	DeleteCron(ctx context.Context, id uuid.UUID) error
}

var _ CronAdapter = (*CronPort)(nil)

// init cron port
func NewCronPort(cronService domain.CronUseCase) CronAdapter {
	return &CronPort{cronService: cronService}
}

type CronPort struct {
	cronService domain.CronUseCase
}

func (m *CronPort) CreateCron(ctx context.Context, id uuid.UUID, name string) error {
	return m.cronService.CreateCron(ctx, id, name)
}

func (m *CronPort) DeleteCron(ctx context.Context, id uuid.UUID) error {
	return m.cronService.DeleteCron(ctx, id)
}
