package model

import "time"

type SuggestionStatus int

const (
	SuggestionUndecided SuggestionStatus = iota
	SuggestionApproved
	SuggestionDenied
	SuggestionConsidered
	SuggestionImplemented
)

func (s SuggestionStatus) String() string {
	switch s {
	case SuggestionUndecided:
		return "Undecided"
	case SuggestionApproved:
		return "Approved"
	case SuggestionDenied:
		return "Denied"
	case SuggestionConsidered:
		return "Considered"
	case SuggestionImplemented:
		return "Implemented"
	}
	return "Unknown"
}

// Suggestion is a community suggestion posted via the suggest command.
type Suggestion struct {
	ID        int64            `db:"id"`
	MessageID string           `db:"message_id"`
	AuthorID  string           `db:"author_id"`
	CreatedAt time.Time        `db:"created_at"`
	Status    SuggestionStatus `db:"status"`
}
