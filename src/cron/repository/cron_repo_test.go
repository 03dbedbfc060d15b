package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/MMN3003/minter/src/cron/domain"
	"github.com/MMN3003/minter/src/logger"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestCronRepo(t *testing.T) *CronRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:cron_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	return NewCronRepo(db, logger.Nop())
}

func TestCronRepo_LockLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newTestCronRepo(t)
	id := uuid.New()

	c, err := r.SaveCron(ctx, &domain.Cron{ID: id, Name: "sweep"})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "sweep", c.Name)

	_, err = r.SaveCron(ctx, &domain.Cron{ID: id, Name: "sweep"})
	assert.ErrorIs(t, err, domain.ErrJobLocked)

	require.NoError(t, r.DeleteCron(ctx, id))
	got, err := r.GetCronByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = r.SaveCron(ctx, &domain.Cron{ID: id, Name: "sweep"})
	assert.NoError(t, err)
}
