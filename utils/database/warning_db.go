package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddWarning inserts a new warning and returns its assigned id.
func AddWarning(db *sqlx.DB, userID string, createdAt time.Time, reason string) (int64, error) {
	result, err := db.Exec(`INSERT INTO warnings (user_id, created_at, reason) VALUES (?, ?, ?)`,
		userID, createdAt, reason)
	if err != nil {
		return 0, fmt.Errorf("failed to insert warning for user %s: %w", userID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetWarningOwner returns the user a warning belongs to, or "" if the
// warning does not exist.
func GetWarningOwner(db *sqlx.DB, warningID int64) (string, error) {
	var userID string
	err := db.Get(&userID, `SELECT user_id FROM warnings WHERE id = ? LIMIT 1`, warningID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up warning %d: %w", warningID, err)
	}
	return userID, nil
}

// RemoveWarning deletes a single warning by id.
func RemoveWarning(db *sqlx.DB, warningID int64) error {
	result, err := db.Exec(`DELETE FROM warnings WHERE id = ?`, warningID)
	if err != nil {
		return fmt.Errorf("failed to delete warning %d: %w", warningID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for warning %d: %w", warningID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no warning found with id %d", warningID)
	}
	return nil
}

// RemoveAllWarnings deletes every warning of the given user.
func RemoveAllWarnings(db *sqlx.DB, userID string) error {
	if _, err := db.Exec(`DELETE FROM warnings WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete warnings for user %s: %w", userID, err)
	}
	return nil
}

// ListWarnings returns all warnings of a user, oldest first.
func ListWarnings(db *sqlx.DB, userID string) ([]model.Warning, error) {
	var warnings []model.Warning
	err := db.Select(&warnings, `SELECT * FROM warnings WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings for user %s: %w", userID, err)
	}
	return warnings, nil
}

// CountWarnings returns the number of active warnings a user has.
func CountWarnings(db *sqlx.DB, userID string) (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM warnings WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %s: %w", userID, err)
	}
	return count, nil
}
