package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddModmail records a new modmail ticket with status Open.
func AddModmail(db *sqlx.DB, messageID, author string, createdAt time.Time) error {
	_, err := db.Exec(`INSERT INTO modmail (message_id, author, created_at, status) VALUES (?, ?, ?, ?)`,
		messageID, author, createdAt, model.ModmailOpen)
	if err != nil {
		return fmt.Errorf("failed to insert modmail %s: %w", messageID, err)
	}
	return nil
}

// SetModmailStatus updates the status of a modmail ticket.
func SetModmailStatus(db *sqlx.DB, messageID string, status model.ModmailStatus) error {
	if _, err := db.Exec(`UPDATE modmail SET status = ? WHERE message_id = ?`, status, messageID); err != nil {
		return fmt.Errorf("failed to update modmail %s: %w", messageID, err)
	}
	return nil
}

// GetModmailStatus returns the current status of a ticket, or false if the
// message is not a tracked modmail.
func GetModmailStatus(db *sqlx.DB, messageID string) (model.ModmailStatus, bool, error) {
	var status model.ModmailStatus
	err := db.Get(&status, `SELECT status FROM modmail WHERE message_id = ? LIMIT 1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get modmail status for %s: %w", messageID, err)
	}
	return status, true, nil
}

// GetModmailWithStatus returns all tickets carrying the given status,
// oldest first.
func GetModmailWithStatus(db *sqlx.DB, status model.ModmailStatus) ([]model.ModmailTicket, error) {
	var tickets []model.ModmailTicket
	err := db.Select(&tickets, `SELECT * FROM modmail WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get modmail with status %s: %w", status, err)
	}
	return tickets, nil
}
