package moderation

import (
	"time"

	"sam-bot/model"
	"sam-bot/utils"
)

// Platform is the slice of the chat platform the moderation engine needs.
// The engine never retries platform calls; transient failures propagate to
// the caller and no engine state is mutated after a failed call.
type Platform interface {
	GrantRole(userID, roleID, reason string) error
	RevokeRole(userID, roleID, reason string) error
	HasRole(userID, roleID string) (bool, error)
	Ban(userID, reason string) error
	Unban(userID, reason string) error
	Kick(userID, reason string) error
}

// Notifier delivers messages to users and the moderation log. Both are
// fire-and-forget; failures are logged by the implementation.
type Notifier interface {
	NotifyUser(userID, message string)
	NotifyModLog(entry utils.ModLogEntry)
}

// Jobs is the scheduler surface the engine consumes. Schedule replaces any
// pending job with the same key; Cancel tolerates missing keys.
type Jobs interface {
	Schedule(key string, runAt time.Time, kind, payload string) error
	Cancel(key string) bool
	Get(key string) (*model.ScheduledJob, bool)
}

// Actor identifies who initiated a moderation action. System actors mark
// bot-initiated escalations and expirations so that messaging can differ
// from moderator-issued ones.
type Actor struct {
	ID     string
	System bool
}

// SystemActor is the attribution used for automatic actions.
var SystemActor = Actor{System: true}

func (a Actor) String() string {
	if a.System {
		return "System"
	}
	return "<@" + a.ID + ">"
}
