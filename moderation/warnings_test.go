package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWarningSchedulesExpiry(t *testing.T) {
	e := newTestEngine(t)

	id, count, err := e.AddWarning("user-1", "spamming", Actor{ID: "mod-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, count)

	job, ok := e.jobs.Get("warns_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, JobKindWarningExpiry, job.Kind)
	assert.Equal(t, "user-1", job.Payload)
	assert.Equal(t, e.baseTime.Add(4*7*24*time.Hour), job.RunAt)
}

func TestAddWarningRestartsExpiryClock(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, count, err := e.AddWarning("user-1", "second", Actor{ID: "mod-1"})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	job, ok := e.jobs.Get("warns_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, e.baseTime.Add(12*7*24*time.Hour), job.RunAt, "two warnings decay after 12 weeks")
}

func TestEscalationTriggersOnExactThreshold(t *testing.T) {
	e := newTestEngine(t)

	for n := 1; n <= 3; n++ {
		_, _, err := e.AddWarning("user-1", "repeated offense", Actor{ID: "mod-1"})
		require.NoError(t, err)
	}

	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.True(t, muted, "third warning should tempmute")

	job, ok := e.jobs.Get("tempmute_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, JobKindMuteExpiry, job.Kind)
	assert.Equal(t, e.baseTime.Add(7*24*time.Hour), job.RunAt)
}

func TestEscalationBanAtUpperThreshold(t *testing.T) {
	e := newTestEngine(t)

	for n := 1; n <= 7; n++ {
		_, _, err := e.AddWarning("user-1", "repeated offense", Actor{ID: "mod-1"})
		require.NoError(t, err)
	}
	assert.True(t, e.platform.banned["user-1"], "seventh warning should ban")
}

func TestEscalationDoesNotRetrigger(t *testing.T) {
	e := newTestEngine(t)

	for n := 1; n <= 4; n++ {
		_, _, err := e.AddWarning("user-1", "repeated offense", Actor{ID: "mod-1"})
		require.NoError(t, err)
	}

	// The mute expiry job stems from warning three; warning four must not
	// reschedule it.
	job, ok := e.jobs.Get("tempmute_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, e.baseTime.Add(7*24*time.Hour), job.RunAt)
}

func TestRemoveWarningPreservesClock(t *testing.T) {
	e := newTestEngine(t)

	firstID, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, _, err = e.AddWarning("user-1", "second", Actor{ID: "mod-1"})
	require.NoError(t, err)

	userID, err := e.RemoveWarning(firstID, "appealed", Actor{ID: "mod-1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Two warnings decay after 12 weeks, one after 4: the pending run time
	// shrinks by the 8 week difference instead of restarting.
	job, ok := e.jobs.Get("warns_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, e.baseTime.Add(4*7*24*time.Hour), job.RunAt)
}

func TestRemoveWarningWithoutPriorJobReschedulesFromNow(t *testing.T) {
	e := newTestEngine(t)

	firstID, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, _, err = e.AddWarning("user-1", "second", Actor{ID: "mod-1"})
	require.NoError(t, err)

	e.jobs.Cancel("warns_expire_user-1")

	_, err = e.RemoveWarning(firstID, "appealed", Actor{ID: "mod-1"})
	require.NoError(t, err)

	job, ok := e.jobs.Get("warns_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, e.baseTime.Add(4*7*24*time.Hour), job.RunAt)
}

func TestRemoveLastWarningCancelsExpiry(t *testing.T) {
	e := newTestEngine(t)

	id, _, err := e.AddWarning("user-1", "only one", Actor{ID: "mod-1"})
	require.NoError(t, err)

	_, err = e.RemoveWarning(id, "appealed", Actor{ID: "mod-1"})
	require.NoError(t, err)

	_, ok := e.jobs.Get("warns_expire_user-1")
	assert.False(t, ok, "no warnings left, no expiry job")
}

func TestRemoveWarningUnknownID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RemoveWarning(42, "appealed", Actor{ID: "mod-1"})
	assert.ErrorIs(t, err, ErrWarningNotFound)
}

func TestClearWarningsCancelsExpiry(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, _, err = e.AddWarning("user-1", "second", Actor{ID: "mod-1"})
	require.NoError(t, err)

	require.NoError(t, e.ClearWarnings("user-1", "fresh start", Actor{ID: "mod-1"}))

	warnings, err := e.ListWarnings("user-1")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	_, ok := e.jobs.Get("warns_expire_user-1")
	assert.False(t, ok)
}

func TestWarningExpiryClearsAllWarnings(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, _, err = e.AddWarning("user-1", "second", Actor{ID: "mod-1"})
	require.NoError(t, err)

	e.HandleWarningExpiry("user-1")
	// A duplicate fire must not do any harm.
	e.HandleWarningExpiry("user-1")

	warnings, err := e.ListWarnings("user-1")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestWarningsAreIndependentPerMember(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.AddWarning("user-1", "first", Actor{ID: "mod-1"})
	require.NoError(t, err)
	_, count, err := e.AddWarning("user-2", "other member", Actor{ID: "mod-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	e.HandleWarningExpiry("user-1")

	warnings, err := e.ListWarnings("user-2")
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}
