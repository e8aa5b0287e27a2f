package moderation

import (
	"errors"
	"sync"
	"time"

	"sam-bot/model"
	"sam-bot/utils"
	"sam-bot/utils/database"

	"github.com/jmoiron/sqlx"
)

// fakeJobs is an in-memory stand-in for the scheduler.
type fakeJobs struct {
	mu   sync.Mutex
	jobs map[string]model.ScheduledJob
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: make(map[string]model.ScheduledJob)}
}

func (f *fakeJobs) Schedule(key string, runAt time.Time, kind, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[key] = model.ScheduledJob{Key: key, Kind: kind, Payload: payload, RunAt: runAt}
	return nil
}

func (f *fakeJobs) Cancel(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[key]
	delete(f.jobs, key)
	return ok
}

func (f *fakeJobs) Get(key string) (*model.ScheduledJob, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[key]
	if !ok {
		return nil, false
	}
	return &job, true
}

// fakePlatform tracks roles, bans and kicks in memory. Errors can be
// injected per call site.
type fakePlatform struct {
	roles  map[string]map[string]bool
	banned map[string]bool
	kicked []string

	failGrant  error
	failRevoke error
	failBan    error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		roles:  make(map[string]map[string]bool),
		banned: make(map[string]bool),
	}
}

func (f *fakePlatform) GrantRole(userID, roleID, reason string) error {
	if f.failGrant != nil {
		return f.failGrant
	}
	if f.roles[userID] == nil {
		f.roles[userID] = make(map[string]bool)
	}
	f.roles[userID][roleID] = true
	return nil
}

func (f *fakePlatform) RevokeRole(userID, roleID, reason string) error {
	if f.failRevoke != nil {
		return f.failRevoke
	}
	if !f.roles[userID][roleID] {
		return errors.New("member does not have this role")
	}
	delete(f.roles[userID], roleID)
	return nil
}

func (f *fakePlatform) HasRole(userID, roleID string) (bool, error) {
	return f.roles[userID][roleID], nil
}

func (f *fakePlatform) Ban(userID, reason string) error {
	if f.failBan != nil {
		return f.failBan
	}
	f.banned[userID] = true
	return nil
}

func (f *fakePlatform) Unban(userID, reason string) error {
	if !f.banned[userID] {
		return errors.New("member is not banned")
	}
	delete(f.banned, userID)
	return nil
}

func (f *fakePlatform) Kick(userID, reason string) error {
	f.kicked = append(f.kicked, userID)
	return nil
}

// fakeNotifier records DMs and mod log entries.
type fakeNotifier struct {
	messages []string
	modLog   []utils.ModLogEntry
}

func (f *fakeNotifier) NotifyUser(userID, message string) {
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) NotifyModLog(entry utils.ModLogEntry) {
	f.modLog = append(f.modLog, entry)
}

type testEngine struct {
	*Engine
	db       *sqlx.DB
	jobs     *fakeJobs
	platform *fakePlatform
	notifier *fakeNotifier
	baseTime time.Time
}

func testConfig() *model.Config {
	return &model.Config{
		GuildID:         "guild",
		RulesChannelID:  "rules",
		ModeratorRoleID: "mod-role",
		MutedRoleID:     "muted-role",
		Moderation: model.ModerationConfig{
			Escalation: map[int]model.EscalationStep{
				3: {Action: "tempmute", Duration: "1w"},
				5: {Action: "tempban", Duration: "2w"},
				7: {Action: "ban"},
			},
			NameHistoryLimit: 10,
		},
	}
}

func newTestEngine(t interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
}) *testEngine {
	db, err := database.Init(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	jobs := newFakeJobs()
	platform := newFakePlatform()
	notifier := &fakeNotifier{}
	engine := NewEngine(db, jobs, platform, notifier, testConfig())

	baseTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return baseTime }

	return &testEngine{
		Engine:   engine,
		db:       db,
		jobs:     jobs,
		platform: platform,
		notifier: notifier,
		baseTime: baseTime,
	}
}
