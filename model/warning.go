package model

import "time"

// Warning represents a single warning a moderator has given to a member.
type Warning struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	Reason    string    `db:"reason"`
}

// NameRecord is one entry in a member's display-name history.
type NameRecord struct {
	UserID     string    `db:"user_id"`
	Name       string    `db:"name"`
	RecordedAt time.Time `db:"recorded_at"`
}
