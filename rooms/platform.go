package rooms

import (
	"time"

	"sam-bot/model"
)

// Category distinguishes the two community room flavours.
type Category string

const (
	CategoryGame  Category = "game"
	CategoryStudy Category = "study"
)

// RoomSpec describes the channel pair to create.
type RoomSpec struct {
	CategoryID string
	Name       string
	Topic      string
	UserLimit  int
	Bitrate    int
	CreatorID  string
	Reason     string
}

// CreatedRoom identifies the channel pair backing a community room.
type CreatedRoom struct {
	VoiceChannelID string
	TextChannelID  string
}

// RoomState describes a community room that already exists on the platform.
type RoomState struct {
	Room      CreatedRoom
	Name      string
	CreatorID string
	Members   int
}

// Platform is the slice of the chat platform the room manager needs.
type Platform interface {
	// ListRooms returns the community rooms of the category in creation
	// order, with their current voice member counts.
	ListRooms(categoryID string) ([]RoomState, error)

	// CreateRoom creates the voice/text pair. The creator receives
	// channel-scoped moderation permissions on the voice channel.
	CreateRoom(spec RoomSpec) (CreatedRoom, error)

	// DeleteRoom removes the channel pair. Channels already gone are not
	// an error.
	DeleteRoom(room CreatedRoom, reason string) error
}

// Jobs is the scheduler surface the room manager consumes.
type Jobs interface {
	Schedule(key string, runAt time.Time, kind, payload string) error
	Cancel(key string) bool
	Get(key string) (*model.ScheduledJob, bool)
}
