package moderation

import (
	"fmt"
	"log"
	"sync"
	"time"

	"sam-bot/model"
	"sam-bot/utils"
	"sam-bot/utils/database"

	"github.com/jmoiron/sqlx"
)

// Job kinds dispatched by the scheduler.
const (
	JobKindWarningExpiry = "warning_expiry"
	JobKindMuteExpiry    = "tempmute_expiry"
	JobKindBanExpiry     = "tempban_expiry"
)

// Engine implements the warning escalation state machine and the temporary
// sanction lifecycle. All collaborators are injected; scheduled callbacks
// carry only user ids and resolve the live collaborators through the engine
// registered at startup.
type Engine struct {
	db       *sqlx.DB
	jobs     Jobs
	platform Platform
	notifier Notifier
	cfg      *model.Config

	// Serializes warning-count reads against job upserts. Discord events
	// arrive on separate goroutines.
	mu sync.Mutex

	now func() time.Time
}

// NewEngine wires a moderation engine and registers its expiry handlers
// with the scheduler.
func NewEngine(db *sqlx.DB, jobs Jobs, platform Platform, notifier Notifier, cfg *model.Config) *Engine {
	e := &Engine{
		db:       db,
		jobs:     jobs,
		platform: platform,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
	return e
}

// RegisterJobHandlers binds the engine's scheduled callbacks. The registry
// parameter is the concrete scheduler; kept separate from the Jobs
// interface so tests can drive expiries directly.
func (e *Engine) RegisterJobHandlers(register func(kind string, fn func(payload string))) {
	register(JobKindWarningExpiry, e.HandleWarningExpiry)
	register(JobKindMuteExpiry, e.HandleMuteExpiry)
	register(JobKindBanExpiry, e.HandleBanExpiry)
}

func warnExpiryKey(userID string) string { return "warns_expire_" + userID }

// decayWeeks returns how many weeks a member's warnings stay active given
// their current count: 4 weeks for a single warning, (n+1)*4 beyond that.
func decayWeeks(count int) int {
	if count <= 1 {
		return 4
	}
	return (count + 1) * 4
}

func weeks(n int) time.Duration {
	return time.Duration(n) * 7 * 24 * time.Hour
}

// AddWarning persists a warning for the member, triggers the configured
// automatic sanction if the new total hits an escalation threshold exactly,
// and reschedules the member's warning expiry. Returns the warning id and
// the new count.
func (e *Engine) AddWarning(userID, reason string, issuedBy Actor) (int64, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := database.AddWarning(e.db, userID, e.now(), reason)
	if err != nil {
		return 0, 0, err
	}
	count, err := database.CountWarnings(e.db, userID)
	if err != nil {
		return 0, 0, err
	}
	log.Printf("Member %s has been warned (warning #%d, total %d).", userID, id, count)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Warning ⚠️",
		Color:     utils.ColorModLogWarn,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})

	// Thresholds are exact-match: a count that jumps past one (bulk
	// import) does not trigger it retroactively.
	if step, ok := e.cfg.Moderation.Escalation[count]; ok {
		e.escalate(userID, count, step)
	}

	if err := e.rescheduleWarningExpiry(userID, count, true); err != nil {
		return id, count, err
	}
	return id, count, nil
}

// escalate applies the sanction configured for the given warning count,
// attributed to the system. Escalation failures are logged, not propagated:
// the warning itself has already been recorded.
func (e *Engine) escalate(userID string, count int, step model.EscalationStep) {
	reason := fmt.Sprintf("Automatic action after reaching a total of %d warnings.", count)

	var err error
	switch step.Action {
	case "tempmute":
		_, err = e.applyTemporarySanction(userID, SanctionMute, step.Duration, reason, SystemActor)
	case "tempban":
		_, err = e.applyTemporarySanction(userID, SanctionBan, step.Duration, reason, SystemActor)
	case "ban":
		err = e.Ban(userID, reason, SystemActor)
	default:
		err = fmt.Errorf("unknown escalation action %q", step.Action)
	}
	if err != nil {
		log.Printf("Error escalating member %s at %d warnings: %v", userID, count, err)
	}
}

// RemoveWarning deletes a single warning and adjusts the member's expiry
// job so the remaining wait shrinks proportionally instead of restarting.
// Returns the affected member.
func (e *Engine) RemoveWarning(warningID int64, reason string, issuedBy Actor) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	userID, err := database.GetWarningOwner(e.db, warningID)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", fmt.Errorf("%w: id %d", ErrWarningNotFound, warningID)
	}

	if err := database.RemoveWarning(e.db, warningID); err != nil {
		return "", err
	}
	count, err := database.CountWarnings(e.db, userID)
	if err != nil {
		return "", err
	}
	log.Printf("Warning #%d has been removed from member %s (total %d).", warningID, userID, count)

	if err := e.rescheduleWarningExpiry(userID, count, false); err != nil {
		return "", err
	}

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Repeal: Warning",
		Color:     utils.ColorModLogRepeal,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return userID, nil
}

// ClearWarnings removes every warning of the member and drops the pending
// expiry job.
func (e *Engine) ClearWarnings(userID, reason string, issuedBy Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := database.RemoveAllWarnings(e.db, userID); err != nil {
		return err
	}
	e.jobs.Cancel(warnExpiryKey(userID))
	log.Printf("All warnings have been removed from member %s.", userID)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Repeal: All Warnings",
		Color:     utils.ColorModLogRepeal,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return nil
}

// ListWarnings returns the member's active warnings, oldest first.
func (e *Engine) ListWarnings(userID string) ([]model.Warning, error) {
	return database.ListWarnings(e.db, userID)
}

// rescheduleWarningExpiry upserts the single expiry job for the member.
//
// When a warning was added the timer restarts from now with the new decay
// period. When one was removed the existing run time is shortened by the
// decay difference between the old and new counts, preserving the original
// clock; without this, warn-then-unwarn would reset the timer. A missing
// prior job on removal falls back to a fresh schedule from now.
func (e *Engine) rescheduleWarningExpiry(userID string, count int, added bool) error {
	key := warnExpiryKey(userID)
	if count == 0 {
		e.jobs.Cancel(key)
		return nil
	}

	runAt := e.now().Add(weeks(decayWeeks(count)))
	if !added {
		if job, ok := e.jobs.Get(key); ok {
			runAt = job.RunAt.Add(-weeks(decayWeeks(count+1) - decayWeeks(count)))
		} else {
			log.Printf("No pending warning expiry for member %s during removal, rescheduling from now.", userID)
		}
	}
	return e.jobs.Schedule(key, runAt, JobKindWarningExpiry, userID)
}

// HandleWarningExpiry fires when a member's warning decay period elapses.
// All warnings are cleared at once. Safe to fire twice: clearing an empty
// set is a no-op apart from the log entry.
func (e *Engine) HandleWarningExpiry(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := database.RemoveAllWarnings(e.db, userID); err != nil {
		log.Printf("Error clearing expired warnings for member %s: %v", userID, err)
		return
	}
	log.Printf("Warnings of member %s have expired and were cleared.", userID)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Repeal: All Warnings",
		Color:     utils.ColorModLogRepeal,
		Moderator: SystemActor.String(),
		UserID:    userID,
		Reason:    "Automatic action, the configured decay period has elapsed.",
	})
}
