package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MMN3003/minter/src/cron/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ domain.CronRepository = (*CronRepo)(nil)

// ---------- LOCKS ----------

type Cron struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time
}

// ---------- REPO ----------

type CronRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCronRepo(db *gorm.DB, log *logger.Logger) *CronRepo {
	if err := db.AutoMigrate(&Cron{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &CronRepo{db: db, log: log}
}

// SaveCron takes the lock. It returns domain.ErrJobLocked when the row exists.
func (r *CronRepo) SaveCron(ctx context.Context, c *domain.Cron) (*domain.Cron, error) {
	model := Cron{
		ID:   c.ID,
		Name: c.Name,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrJobLocked
	}
	return r.GetCronByID(ctx, model.ID)
}

func (r *CronRepo) GetCronByID(ctx context.Context, id uuid.UUID) (*domain.Cron, error) {
	var c Cron
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainCron(&c), nil
}

func (r *CronRepo) DeleteCron(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Cron{}, "id = ?", id).Error
}

// ---------- HELPERS ----------

func (r *CronRepo) toDomainCron(c *Cron) *domain.Cron {
	return &domain.Cron{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
