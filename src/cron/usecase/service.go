package usecase

import (
	"context"

	"github.com/MMN3003/minter/src/cron/domain"
	"github.com/MMN3003/minter/src/logger"
	"github.com/google/uuid"
)

var _ domain.CronUseCase = (*Service)(nil)

type Service struct {
	cronRepo domain.CronRepository
	logger   *logger.Logger
}

func NewService(cronRepo domain.CronRepository, logg *logger.Logger) *Service {
	s := &Service{
		cronRepo: cronRepo,
		logger:   logg,
	}
	return s
}

func (s *Service) CreateCron(ctx context.Context, id uuid.UUID, name string) error {
	_, err := s.cronRepo.SaveCron(ctx, &domain.Cron{ID: id, Name: name})
	if err != nil {
		s.logger.Debugf("cron %s not started: %v", name, err)
	}
	return err
}

func (s *Service) DeleteCron(ctx context.Context, id uuid.UUID) error {
	return s.cronRepo.DeleteCron(ctx, id)
}
