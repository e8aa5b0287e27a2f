package database

import (
	"testing"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWarningLifecycle(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id1, err := AddWarning(db, "user-1", now, "spamming")
	require.NoError(t, err)
	id2, err := AddWarning(db, "user-1", now.Add(time.Hour), "flaming")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	owner, err := GetWarningOwner(db, id1)
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)

	owner, err = GetWarningOwner(db, 999)
	require.NoError(t, err)
	assert.Empty(t, owner, "unknown warnings have no owner")

	count, err := CountWarnings(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, RemoveWarning(db, id1))
	assert.Error(t, RemoveWarning(db, id1), "a warning cannot be removed twice")

	warnings, err := ListWarnings(db, "user-1")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "flaming", warnings[0].Reason)

	require.NoError(t, RemoveAllWarnings(db, "user-1"))
	count, err = CountWarnings(db, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestJobUpsertAndDueSelection(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, UpsertJob(db, model.ScheduledJob{
		Key: "a", Kind: "warning_expiry", Payload: "user-1", RunAt: now.Add(-time.Minute),
	}))
	require.NoError(t, UpsertJob(db, model.ScheduledJob{
		Key: "b", Kind: "tempmute_expiry", Payload: "user-2", RunAt: now.Add(time.Hour),
	}))
	// Same key again pushes the run time out.
	require.NoError(t, UpsertJob(db, model.ScheduledJob{
		Key: "a", Kind: "warning_expiry", Payload: "user-1", RunAt: now.Add(-time.Second),
	}))

	due, err := GetDueJobs(db, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "a", due[0].Key)

	removed, err := DeleteJob(db, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = DeleteJob(db, "a")
	require.NoError(t, err)
	assert.False(t, removed)

	job, err := GetJob(db, "b")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "user-2", job.Payload)
}

func TestModmailStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, AddModmail(db, "msg-1", "Alice", now))

	status, ok, err := GetModmailStatus(db, "msg-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.ModmailOpen, status)

	_, ok, err = GetModmailStatus(db, "not-a-ticket")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetModmailStatus(db, "msg-1", model.ModmailInProgress))
	open, err := GetModmailWithStatus(db, model.ModmailOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	inProgress, err := GetModmailWithStatus(db, model.ModmailInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, "Alice", inProgress[0].Author)
}

func TestSuggestionLifecycle(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := AddSuggestion(db, "user-1", now)
	require.NoError(t, err)
	require.NoError(t, SetSuggestionMessageID(db, id, "msg-1"))

	exists, err := SetSuggestionStatus(db, id, model.SuggestionApproved)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = SetSuggestionStatus(db, 999, model.SuggestionDenied)
	require.NoError(t, err)
	assert.False(t, exists)

	suggestion, err := GetSuggestion(db, id)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, model.SuggestionApproved, suggestion.Status)
	assert.Equal(t, "msg-1", suggestion.MessageID)

	status, ok, err := GetSuggestionStatusByMessage(db, "msg-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SuggestionApproved, status)
}

func TestNameHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, AddMemberName(db, "user-1", "OldName", now))
	require.NoError(t, AddMemberName(db, "user-1", "NewerName", now.Add(time.Hour)))
	require.NoError(t, AddMemberName(db, "user-2", "Someone", now))

	names, err := GetMemberNames(db, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "NewerName", names[0].Name)
	assert.Equal(t, "OldName", names[1].Name)

	names, err = GetMemberNames(db, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "NewerName", names[0].Name)
}
