package scheduler

import (
	"testing"
	"time"

	"sam-bot/utils/database"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) (*Scheduler, *sqlx.DB) {
	t.Helper()
	db, err := database.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, time.Minute), db
}

func TestScheduleReplacesExistingJob(t *testing.T) {
	s, _ := newTestScheduler(t)

	first := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	second := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)

	require.NoError(t, s.Schedule("warns_expire_user-1", first, "warning_expiry", "user-1"))
	require.NoError(t, s.Schedule("warns_expire_user-1", second, "warning_expiry", "user-1"))

	job, ok := s.Get("warns_expire_user-1")
	require.True(t, ok)
	assert.True(t, job.RunAt.Equal(second), "the second schedule replaces the first")
}

func TestCancel(t *testing.T) {
	s, _ := newTestScheduler(t)

	require.NoError(t, s.Schedule("key-1", time.Now().Add(time.Hour), "warning_expiry", "user-1"))

	assert.True(t, s.Cancel("key-1"))
	assert.False(t, s.Cancel("key-1"), "cancelling twice reports no job removed")
	assert.False(t, s.Cancel("never-existed"))

	_, ok := s.Get("key-1")
	assert.False(t, ok)
}

func TestGetMissingJob(t *testing.T) {
	s, _ := newTestScheduler(t)

	job, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, job)
}

func TestDispatchDueFiresOnce(t *testing.T) {
	s, _ := newTestScheduler(t)

	fired := make([]string, 0, 1)
	s.RegisterHandler("warning_expiry", func(payload string) {
		fired = append(fired, payload)
	})

	require.NoError(t, s.Schedule("key-1", time.Now().Add(-time.Minute), "warning_expiry", "user-1"))

	s.dispatchDue()
	s.dispatchDue()

	assert.Equal(t, []string{"user-1"}, fired)
	_, ok := s.Get("key-1")
	assert.False(t, ok, "fired jobs are removed")
}

func TestDispatchLeavesFutureJobsAlone(t *testing.T) {
	s, _ := newTestScheduler(t)

	s.RegisterHandler("warning_expiry", func(payload string) {
		t.Errorf("job fired %s early", payload)
	})
	require.NoError(t, s.Schedule("key-1", time.Now().Add(time.Hour), "warning_expiry", "user-1"))

	s.dispatchDue()

	_, ok := s.Get("key-1")
	assert.True(t, ok)
}

func TestDispatchDropsUnknownKinds(t *testing.T) {
	s, _ := newTestScheduler(t)

	require.NoError(t, s.Schedule("key-1", time.Now().Add(-time.Minute), "orphaned_kind", "user-1"))

	s.dispatchDue()

	_, ok := s.Get("key-1")
	assert.False(t, ok, "jobs without a handler are dropped, not retried")
}

func TestJobsSurviveAcrossSchedulerInstances(t *testing.T) {
	s, db := newTestScheduler(t)

	runAt := time.Now().Add(-time.Minute)
	require.NoError(t, s.Schedule("key-1", runAt, "warning_expiry", "user-1"))

	// A new scheduler over the same database sees the persisted job.
	restarted := New(db, time.Minute)
	fired := 0
	restarted.RegisterHandler("warning_expiry", func(payload string) { fired++ })

	restarted.dispatchDue()
	assert.Equal(t, 1, fired)
}
