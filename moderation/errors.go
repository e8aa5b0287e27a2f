package moderation

import "errors"

// Domain conditions surfaced back to the invoking user as corrective
// messages. Handlers match on these with errors.Is.
var (
	// ErrInvalidDuration signals an unparseable or non-positive duration.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrAlreadySanctioned signals the member already carries the effect.
	ErrAlreadySanctioned = errors.New("member already carries this sanction")

	// ErrNotSanctioned signals an attempt to lift a sanction the member
	// does not carry.
	ErrNotSanctioned = errors.New("member does not carry this sanction")

	// ErrWarningNotFound signals an unknown warning id.
	ErrWarningNotFound = errors.New("warning not found")
)
