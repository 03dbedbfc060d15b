package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrJobLocked means another run of the job holds the lock row.
var ErrJobLocked = errors.New("cron job is already running")

// Cron is the lock row of a running job.
type Cron struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type CronRepository interface {
	SaveCron(ctx context.Context, c *Cron) (*Cron, error)
	DeleteCron(ctx context.Context, id uuid.UUID) error
}

type CronUseCase interface {
	CreateCron(ctx context.Context, id uuid.UUID, name string) error
	DeleteCron(ctx context.Context, id uuid.UUID) error
}
