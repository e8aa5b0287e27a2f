package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTemporarySanctionInvalidDuration(t *testing.T) {
	e := newTestEngine(t)

	for _, duration := range []string{"", "abc", "0h", "-5m"} {
		_, err := e.ApplyTemporarySanction("user-1", SanctionMute, duration, "spamming", Actor{ID: "mod-1"})
		assert.ErrorIs(t, err, ErrInvalidDuration, "duration %q", duration)
	}

	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.False(t, muted)
	assert.Empty(t, e.jobs.jobs, "no job may exist after a failed check")
}

func TestTempmuteSchedulesExpiry(t *testing.T) {
	e := newTestEngine(t)

	expiresAt, err := e.ApplyTemporarySanction("user-1", SanctionMute, "3d", "spamming", Actor{ID: "mod-1"})
	require.NoError(t, err)
	assert.Equal(t, e.baseTime.Add(3*24*time.Hour), expiresAt)

	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.True(t, muted)

	job, ok := e.jobs.Get("tempmute_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, JobKindMuteExpiry, job.Kind)
	assert.Equal(t, "user-1", job.Payload)
	assert.Equal(t, expiresAt, job.RunAt)
}

func TestTempmuteAlreadyMuted(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ApplyTemporarySanction("user-1", SanctionMute, "3d", "spamming", Actor{ID: "mod-1"})
	require.NoError(t, err)

	_, err = e.ApplyTemporarySanction("user-1", SanctionMute, "1w", "again", Actor{ID: "mod-1"})
	assert.ErrorIs(t, err, ErrAlreadySanctioned)
}

func TestTempmutePlatformFailureSchedulesNothing(t *testing.T) {
	e := newTestEngine(t)
	e.platform.failGrant = errors.New("missing permissions")

	_, err := e.ApplyTemporarySanction("user-1", SanctionMute, "3d", "spamming", Actor{ID: "mod-1"})
	require.Error(t, err)

	_, ok := e.jobs.Get("tempmute_expire_user-1")
	assert.False(t, ok, "a failed platform call must not leave a job behind")
}

func TestTempbanSchedulesExpiry(t *testing.T) {
	e := newTestEngine(t)

	expiresAt, err := e.ApplyTemporarySanction("user-1", SanctionBan, "2w", "severe offense", Actor{ID: "mod-1"})
	require.NoError(t, err)
	assert.True(t, e.platform.banned["user-1"])

	job, ok := e.jobs.Get("tempban_expire_user-1")
	require.True(t, ok)
	assert.Equal(t, JobKindBanExpiry, job.Kind)
	assert.Equal(t, expiresAt, job.RunAt)
}

func TestMuteAndUnmute(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Mute("user-1", "spamming", Actor{ID: "mod-1"}))
	assert.ErrorIs(t, e.Mute("user-1", "again", Actor{ID: "mod-1"}), ErrAlreadySanctioned)

	require.NoError(t, e.Unmute("user-1", "appealed", Actor{ID: "mod-1"}))
	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.False(t, muted)

	assert.ErrorIs(t, e.Unmute("user-1", "again", Actor{ID: "mod-1"}), ErrNotSanctioned)
}

func TestLiftSanctionEarlyCancelsJob(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ApplyTemporarySanction("user-1", SanctionBan, "2w", "severe offense", Actor{ID: "mod-1"})
	require.NoError(t, err)

	require.NoError(t, e.LiftSanctionEarly("user-1", SanctionBan, "appealed", Actor{ID: "mod-1"}))
	assert.False(t, e.platform.banned["user-1"])

	_, ok := e.jobs.Get("tempban_expire_user-1")
	assert.False(t, ok)
}

func TestLiftSanctionEarlyToleratesMissingJob(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ApplyTemporarySanction("user-1", SanctionMute, "3d", "spamming", Actor{ID: "mod-1"})
	require.NoError(t, err)
	e.jobs.Cancel("tempmute_expire_user-1")

	require.NoError(t, e.LiftSanctionEarly("user-1", SanctionMute, "appealed", Actor{ID: "mod-1"}))
	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.False(t, muted)
}

func TestMuteExpiryRevertsAndNotifies(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ApplyTemporarySanction("user-1", SanctionMute, "3d", "spamming", Actor{ID: "mod-1"})
	require.NoError(t, err)

	e.HandleMuteExpiry("user-1")

	muted, err := e.platform.HasRole("user-1", "muted-role")
	require.NoError(t, err)
	assert.False(t, muted)

	// A duplicate fire hits a member without the role and is swallowed.
	e.HandleMuteExpiry("user-1")
}

func TestBanExpiryRevertsBan(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ApplyTemporarySanction("user-1", SanctionBan, "2w", "severe offense", Actor{ID: "mod-1"})
	require.NoError(t, err)

	e.HandleBanExpiry("user-1")
	assert.False(t, e.platform.banned["user-1"])

	e.HandleBanExpiry("user-1")
	assert.False(t, e.platform.banned["user-1"])
}

func TestActorString(t *testing.T) {
	assert.Equal(t, "System", SystemActor.String())
	assert.Equal(t, "<@mod-1>", Actor{ID: "mod-1"}.String())
}
