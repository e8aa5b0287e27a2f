package database

import (
	"fmt"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddMemberName records a display name a member stopped using.
func AddMemberName(db *sqlx.DB, userID, name string, recordedAt time.Time) error {
	_, err := db.Exec(`INSERT INTO name_history (user_id, name, recorded_at) VALUES (?, ?, ?)`,
		userID, name, recordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert name record for user %s: %w", userID, err)
	}
	return nil
}

// GetMemberNames returns up to limit former names of a member, newest first.
func GetMemberNames(db *sqlx.DB, userID string, limit int) ([]model.NameRecord, error) {
	var names []model.NameRecord
	err := db.Select(&names,
		`SELECT * FROM name_history WHERE user_id = ? ORDER BY recorded_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get name history for user %s: %w", userID, err)
	}
	return names, nil
}
