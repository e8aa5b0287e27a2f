package model

import "time"

type ModmailStatus int

const (
	ModmailOpen ModmailStatus = iota + 1
	ModmailInProgress
	ModmailClosed
)

func (s ModmailStatus) String() string {
	switch s {
	case ModmailOpen:
		return "Open"
	case ModmailInProgress:
		return "In Progress"
	case ModmailClosed:
		return "Closed"
	}
	return "Unknown"
}

// ModmailTicket is a message a member has sent to the moderation team,
// identified by the embed message posted in the modmail channel.
type ModmailTicket struct {
	MessageID string        `db:"message_id"`
	Author    string        `db:"author"`
	CreatedAt time.Time     `db:"created_at"`
	Status    ModmailStatus `db:"status"`
}
