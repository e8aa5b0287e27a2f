package rooms

import "errors"

// Domain conditions surfaced back to the invoking user as corrective
// messages. Handlers match on these with errors.Is.
var (
	// ErrTooManyRooms signals the category already holds the configured
	// maximum of community rooms.
	ErrTooManyRooms = errors.New("too many community rooms in this category")

	// ErrInvalidUserLimit signals a user limit outside the range 1 to 99.
	ErrInvalidUserLimit = errors.New("user limit must be between 1 and 99")

	// ErrDuplicateRoom signals the creator already owns an active room.
	ErrDuplicateRoom = errors.New("member already has an active community room")
)
