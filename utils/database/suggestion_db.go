package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddSuggestion inserts a new suggestion and returns its assigned id.
func AddSuggestion(db *sqlx.DB, authorID string, createdAt time.Time) (int64, error) {
	result, err := db.Exec(`INSERT INTO suggestions (author_id, created_at, status) VALUES (?, ?, ?)`,
		authorID, createdAt, model.SuggestionUndecided)
	if err != nil {
		return 0, fmt.Errorf("failed to insert suggestion by %s: %w", authorID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// SetSuggestionMessageID links a suggestion to its posted embed message.
func SetSuggestionMessageID(db *sqlx.DB, id int64, messageID string) error {
	if _, err := db.Exec(`UPDATE suggestions SET message_id = ? WHERE id = ?`, messageID, id); err != nil {
		return fmt.Errorf("failed to set message for suggestion %d: %w", id, err)
	}
	return nil
}

// SetSuggestionStatus updates a suggestion's status. The boolean reports
// whether a suggestion with that id exists.
func SetSuggestionStatus(db *sqlx.DB, id int64, status model.SuggestionStatus) (bool, error) {
	result, err := db.Exec(`UPDATE suggestions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update suggestion %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for suggestion %d: %w", id, err)
	}
	return rowsAffected > 0, nil
}

// GetSuggestion returns a suggestion by id, or nil if none exists.
func GetSuggestion(db *sqlx.DB, id int64) (*model.Suggestion, error) {
	var suggestion model.Suggestion
	err := db.Get(&suggestion, `SELECT * FROM suggestions WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion %d: %w", id, err)
	}
	return &suggestion, nil
}

// GetSuggestionStatusByMessage returns the status of the suggestion posted
// as the given message, or false if the message is not a suggestion.
func GetSuggestionStatusByMessage(db *sqlx.DB, messageID string) (model.SuggestionStatus, bool, error) {
	var status model.SuggestionStatus
	err := db.Get(&status, `SELECT status FROM suggestions WHERE message_id = ? LIMIT 1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get suggestion status for message %s: %w", messageID, err)
	}
	return status, true, nil
}
