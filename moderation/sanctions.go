package moderation

import (
	"fmt"
	"log"
	"time"

	"sam-bot/utils"
)

// SanctionKind distinguishes the two temporary sanction flavours.
type SanctionKind string

const (
	SanctionMute SanctionKind = "mute"
	SanctionBan  SanctionKind = "ban"
)

func sanctionExpiryKey(kind SanctionKind, userID string) string {
	if kind == SanctionMute {
		return "tempmute_expire_" + userID
	}
	return "tempban_expire_" + userID
}

func sanctionJobKind(kind SanctionKind) string {
	if kind == SanctionMute {
		return JobKindMuteExpiry
	}
	return JobKindBanExpiry
}

// Mute mutes the member indefinitely by granting the configured mute role.
func (e *Engine) Mute(userID, reason string, issuedBy Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	muted, err := e.platform.HasRole(userID, e.cfg.MutedRoleID)
	if err != nil {
		return err
	}
	if muted {
		return fmt.Errorf("%w: member %s is already muted", ErrAlreadySanctioned, userID)
	}

	if err := e.platform.GrantRole(userID, e.cfg.MutedRoleID, reason); err != nil {
		return err
	}
	log.Printf("Member %s has been muted.", userID)

	e.notifier.NotifyUser(userID, fmt.Sprintf(
		"You have been muted indefinitely by %s. Please stick to the server rules in <#%s>.",
		issuedBy, e.cfg.RulesChannelID))
	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Mute 🔇",
		Color:     utils.ColorModLogMute,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return nil
}

// Unmute lifts a mute. A pending tempmute expiry job is cancelled; its
// absence is not an error.
func (e *Engine) Unmute(userID, reason string, issuedBy Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	muted, err := e.platform.HasRole(userID, e.cfg.MutedRoleID)
	if err != nil {
		return err
	}
	if !muted {
		return fmt.Errorf("%w: member %s is not muted", ErrNotSanctioned, userID)
	}
	return e.liftSanctionEarly(userID, SanctionMute, reason, issuedBy)
}

// ApplyTemporarySanction mutes or bans the member for the given duration.
// The platform effect is applied before the expiry job is scheduled and
// before anyone is notified: a failed platform call leaves no job behind.
func (e *Engine) ApplyTemporarySanction(userID string, kind SanctionKind, duration, reason string, issuedBy Actor) (time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyTemporarySanction(userID, kind, duration, reason, issuedBy)
}

func (e *Engine) applyTemporarySanction(userID string, kind SanctionKind, duration, reason string, issuedBy Actor) (time.Time, error) {
	d, err := utils.ParseDuration(duration)
	if err != nil || d <= 0 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}
	pretty := utils.PrettyDuration(d)

	switch kind {
	case SanctionMute:
		muted, err := e.platform.HasRole(userID, e.cfg.MutedRoleID)
		if err != nil {
			return time.Time{}, err
		}
		if muted {
			return time.Time{}, fmt.Errorf("%w: member %s is already muted", ErrAlreadySanctioned, userID)
		}
		if err := e.platform.GrantRole(userID, e.cfg.MutedRoleID, reason); err != nil {
			return time.Time{}, err
		}
	case SanctionBan:
		// The DM has to go out before the ban, it is undeliverable afterwards.
		e.notifier.NotifyUser(userID, fmt.Sprintf(
			"You have been banned from the server by %s for %s. Reason: %s", issuedBy, pretty, reason))
		if err := e.platform.Ban(userID, reason); err != nil {
			return time.Time{}, err
		}
	default:
		return time.Time{}, fmt.Errorf("unknown sanction kind %q", kind)
	}

	expiresAt := e.now().Add(d)
	key := sanctionExpiryKey(kind, userID)
	if err := e.jobs.Schedule(key, expiresAt, sanctionJobKind(kind), userID); err != nil {
		return time.Time{}, err
	}
	log.Printf("Member %s has been temporarily %sed until %s.", userID, kind, expiresAt.Format("02.01.2006 15:04:05"))

	if kind == SanctionMute {
		e.notifier.NotifyUser(userID, fmt.Sprintf(
			"You have been muted by %s for %s. Please stick to the server rules in <#%s>.",
			issuedBy, pretty, e.cfg.RulesChannelID))
	}
	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    temporaryActionTitle(kind),
		Color:     sanctionColor(kind),
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
		Details:   fmt.Sprintf("Ends in %s (%s)", pretty, expiresAt.Format("02.01.2006 15:04:05")),
	})
	return expiresAt, nil
}

// LiftSanctionEarly reverts a temporary sanction before its expiry job
// fires. A missing job (already fired, never existed) is treated as
// success.
func (e *Engine) LiftSanctionEarly(userID string, kind SanctionKind, reason string, issuedBy Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liftSanctionEarly(userID, kind, reason, issuedBy)
}

func (e *Engine) liftSanctionEarly(userID string, kind SanctionKind, reason string, issuedBy Actor) error {
	key := sanctionExpiryKey(kind, userID)
	if !e.jobs.Cancel(key) {
		log.Printf("No pending %s expiry for member %s, nothing to cancel.", kind, userID)
	}

	switch kind {
	case SanctionMute:
		if err := e.platform.RevokeRole(userID, e.cfg.MutedRoleID, reason); err != nil {
			return err
		}
		e.notifier.NotifyUser(userID, "Hey! 👋 You are no longer muted. Please stick to the server rules "+
			"in the future, otherwise we will have to impose harsher penalties. ⚖️")
	case SanctionBan:
		if err := e.platform.Unban(userID, reason); err != nil {
			return err
		}
	}
	log.Printf("Temporary %s of member %s has been lifted early.", kind, userID)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    repealActionTitle(kind),
		Color:     utils.ColorModLogRepeal,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return nil
}

// HandleMuteExpiry fires when a tempmute duration has elapsed.
func (e *Engine) HandleMuteExpiry(userID string) {
	e.handleSanctionExpiry(userID, SanctionMute)
}

// HandleBanExpiry fires when a tempban duration has elapsed.
func (e *Engine) HandleBanExpiry(userID string) {
	e.handleSanctionExpiry(userID, SanctionBan)
}

// handleSanctionExpiry reverts the platform effect of an expired sanction.
// Reversal of an already-reverted effect is tolerated: the platform error
// is logged and the member is left alone.
func (e *Engine) handleSanctionExpiry(userID string, kind SanctionKind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reason := "Automatic action, the configured sanction duration has elapsed."

	var err error
	switch kind {
	case SanctionMute:
		err = e.platform.RevokeRole(userID, e.cfg.MutedRoleID, reason)
	case SanctionBan:
		err = e.platform.Unban(userID, reason)
	}
	if err != nil {
		log.Printf("Error reverting expired %s for member %s: %v", kind, userID, err)
		return
	}
	log.Printf("Temporary %s of member %s has expired.", kind, userID)

	switch kind {
	case SanctionMute:
		e.notifier.NotifyUser(userID, "Hey! 👋 You are no longer muted. Please stick to the server rules "+
			"in the future, otherwise we will have to impose harsher penalties. ⚖️")
	case SanctionBan:
		e.notifier.NotifyUser(userID, "Hey! 👋 You are no longer banned from the server. Please stick to "+
			"the rules in the future, otherwise we will have to ban you permanently. ⚖️")
	}

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    repealActionTitle(kind),
		Color:     utils.ColorModLogRepeal,
		Moderator: SystemActor.String(),
		UserID:    userID,
		Reason:    reason,
	})
}

// Ban permanently bans the member. The DM goes out before the ban since it
// cannot be delivered afterwards.
func (e *Engine) Ban(userID, reason string, issuedBy Actor) error {
	e.notifier.NotifyUser(userID, fmt.Sprintf(
		"You have been banned from the server by %s. Reason: %s", issuedBy, reason))

	if err := e.platform.Ban(userID, reason); err != nil {
		return err
	}
	log.Printf("Member %s has been banned from the server.", userID)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Server Ban 🚯",
		Color:     utils.ColorModLogBan,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return nil
}

// Kick removes the member from the server.
func (e *Engine) Kick(userID, reason string, issuedBy Actor) error {
	e.notifier.NotifyUser(userID, fmt.Sprintf(
		"You have been kicked from the server by %s. Reason: %s", issuedBy, reason))

	if err := e.platform.Kick(userID, reason); err != nil {
		return err
	}
	log.Printf("Member %s has been kicked from the server.", userID)

	e.notifier.NotifyModLog(utils.ModLogEntry{
		Action:    "Server Kick 💢",
		Color:     utils.ColorModLogKick,
		Moderator: issuedBy.String(),
		UserID:    userID,
		Reason:    reason,
	})
	return nil
}

func temporaryActionTitle(kind SanctionKind) string {
	if kind == SanctionMute {
		return "Temporary Mute 🔇"
	}
	return "Temporary Server Ban 🚯"
}

func repealActionTitle(kind SanctionKind) string {
	if kind == SanctionMute {
		return "Repeal: Mute 🔊"
	}
	return "Repeal: Server Ban"
}

func sanctionColor(kind SanctionKind) int {
	if kind == SanctionMute {
		return utils.ColorModLogMute
	}
	return utils.ColorModLogBan
}
