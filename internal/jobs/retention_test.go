package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/energy-eservice/internal/config"
)

type fakePurger struct {
	before  time.Time
	deleted int64
	err     error
}

func (f *fakePurger) PurgeAuditLogs(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.deleted, f.err
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(&fakePurger{}, config.RetentionConfig{AuditDays: 30, Schedule: "every day"})
	assert.Error(t, err)
}

func TestPurgeAuditUsesRetentionWindow(t *testing.T) {
	purger := &fakePurger{deleted: 12}
	s, err := NewScheduler(purger, config.RetentionConfig{AuditDays: 30, Schedule: "0 3 * * *"})
	require.NoError(t, err)

	now := time.Date(2026, 3, 31, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	deleted, err := s.PurgeAudit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
	assert.Equal(t, time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC), purger.before)
}

func TestPurgeAuditPropagatesErrors(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	s, err := NewScheduler(purger, config.RetentionConfig{AuditDays: 7, Schedule: "@daily"})
	require.NoError(t, err)

	_, err = s.PurgeAudit(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(&fakePurger{}, config.RetentionConfig{AuditDays: 7, Schedule: "@daily"})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
