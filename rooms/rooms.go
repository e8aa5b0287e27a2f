// Package rooms manages temporary community rooms: member-created
// voice/text channel pairs that disappear again once nobody uses them.
// Rooms are tracked in memory and rebuilt from the platform at startup;
// their pending inactivity jobs are persisted.
package rooms

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"sam-bot/model"
)

// JobKindRoomInactivity is dispatched when a room was never joined within
// the configured timeout.
const JobKindRoomInactivity = "room_inactivity"

var roomTagPattern = regexp.MustCompile(`\[#(\d+)]`)

type trackedRoom struct {
	room      CreatedRoom
	category  Category
	creatorID string
	members   int
	claimed   bool
}

// Manager tracks active community rooms and drives their lifecycle. Voice
// state events arrive on separate goroutines, the mutex serializes them
// against commands and scheduler callbacks.
type Manager struct {
	platform Platform
	jobs     Jobs
	cfg      *model.Config

	mu    sync.Mutex
	rooms map[string]*trackedRoom

	now func() time.Time
}

// NewManager wires a room manager.
func NewManager(platform Platform, jobs Jobs, cfg *model.Config) *Manager {
	return &Manager{
		platform: platform,
		jobs:     jobs,
		cfg:      cfg,
		rooms:    make(map[string]*trackedRoom),
		now:      time.Now,
	}
}

// RegisterJobHandlers binds the manager's scheduled callbacks.
func (m *Manager) RegisterJobHandlers(register func(kind string, fn func(payload string))) {
	register(JobKindRoomInactivity, m.HandleInactivityExpiry)
}

func inactivityKey(voiceChannelID string) string {
	return "room_inactivity_" + voiceChannelID
}

// roomPayload encodes the channel pair so an expiry can still delete the
// room after a restart, when the in-memory tracking is gone.
func roomPayload(room CreatedRoom) string {
	return room.VoiceChannelID + "|" + room.TextChannelID
}

func (m *Manager) categoryID(category Category) string {
	if category == CategoryGame {
		return m.cfg.GameRoomCategoryID
	}
	return m.cfg.StudyRoomCategoryID
}

// Restore rebuilds the in-memory tracking from the channels that exist on
// the platform. Rooms with members are claimed; empty rooms without a
// pending inactivity job get a fresh one so they cannot leak.
func (m *Manager) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, category := range []Category{CategoryGame, CategoryStudy} {
		states, err := m.platform.ListRooms(m.categoryID(category))
		if err != nil {
			return err
		}
		for _, state := range states {
			if _, ok := m.rooms[state.Room.VoiceChannelID]; ok {
				continue
			}
			m.rooms[state.Room.VoiceChannelID] = &trackedRoom{
				room:      state.Room,
				category:  category,
				creatorID: state.CreatorID,
				members:   state.Members,
				claimed:   state.Members > 0,
			}

			key := inactivityKey(state.Room.VoiceChannelID)
			if state.Members > 0 {
				m.jobs.Cancel(key)
				continue
			}
			if _, ok := m.jobs.Get(key); !ok {
				err := m.jobs.Schedule(key, m.now().Add(m.cfg.Rooms.InactivityTimeout),
					JobKindRoomInactivity, roomPayload(state.Room))
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CreateRoom creates a temporary community room for the member. An empty
// name defaults to "{creatorName}'s Room", a user limit of 0 leaves the
// voice channel unlimited. All precondition checks run before any channel
// is created. Returns the final channel name, which may carry a numeric
// suffix when the requested name is already taken in the category.
func (m *Manager) CreateRoom(category Category, creatorID, creatorName, name string, userLimit int) (CreatedRoom, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	categoryID := m.categoryID(category)
	states, err := m.platform.ListRooms(categoryID)
	if err != nil {
		return CreatedRoom{}, "", err
	}
	existing := make([]string, len(states))
	for i, state := range states {
		existing[i] = state.Name
	}

	if len(existing) >= m.cfg.Rooms.Cap {
		return CreatedRoom{}, "", fmt.Errorf("%w: limit is %d", ErrTooManyRooms, m.cfg.Rooms.Cap)
	}
	if userLimit != 0 && (userLimit < 1 || userLimit > 99) {
		return CreatedRoom{}, "", fmt.Errorf("%w: got %d", ErrInvalidUserLimit, userLimit)
	}
	if category == CategoryGame {
		for _, r := range m.rooms {
			if r.category == CategoryGame && r.creatorID == creatorID {
				return CreatedRoom{}, "", ErrDuplicateRoom
			}
		}
	}

	if name == "" {
		name = creatorName + "'s Room"
	}
	name = disambiguateName(existing, name)

	room, err := m.platform.CreateRoom(RoomSpec{
		CategoryID: categoryID,
		Name:       name,
		Topic:      fmt.Sprintf("Temporary %s room. || Created by: %s", category, creatorName),
		UserLimit:  userLimit,
		Bitrate:    m.cfg.Rooms.VoiceBitrate,
		CreatorID:  creatorID,
		Reason:     fmt.Sprintf("Manually created by %s via SAM.", creatorName),
	})
	if err != nil {
		return CreatedRoom{}, "", err
	}

	m.rooms[room.VoiceChannelID] = &trackedRoom{
		room:      room,
		category:  category,
		creatorID: creatorID,
	}
	err = m.jobs.Schedule(inactivityKey(room.VoiceChannelID),
		m.now().Add(m.cfg.Rooms.InactivityTimeout), JobKindRoomInactivity, roomPayload(room))
	if err != nil {
		return room, name, err
	}

	log.Printf("Temporary %s room %q created by %s.", category, name, creatorName)
	return room, name, nil
}

// disambiguateName strips a user-supplied [#N] tag from the requested name
// and, if a room with that name already exists in the category, appends the
// next free number. The newest matching channel determines the numbering,
// starting at [#2]. The result never exceeds 100 characters.
func disambiguateName(existing []string, name string) string {
	name = strings.TrimRight(roomTagPattern.ReplaceAllString(name, ""), " ")

	for i := len(existing) - 1; i >= 0; i-- {
		if !strings.Contains(existing[i], name) {
			continue
		}
		number := 2
		if match := roomTagPattern.FindStringSubmatch(existing[i]); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil {
				number = n + 1
			}
		}
		name += fmt.Sprintf(" [#%d]", number)
		break
	}

	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:100])
	}
	return name
}

// HandleVoiceState processes a member moving between voice channels.
// Either id may be empty. The first member ever joining a room claims it:
// the pending inactivity job is cancelled and never re-established. Once a
// claimed room drops back to zero members it is deleted immediately.
func (m *Manager) HandleVoiceState(joinedChannelID, leftChannelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rooms[joinedChannelID]; ok {
		r.members++
		if !r.claimed {
			r.claimed = true
			m.jobs.Cancel(inactivityKey(joinedChannelID))
		}
	}

	if r, ok := m.rooms[leftChannelID]; ok {
		if r.members > 0 {
			r.members--
		}
		if r.claimed && r.members == 0 {
			m.deleteRoom(leftChannelID, r, "No one was left in Community Room.")
		}
	}
}

// HandleInactivityExpiry fires when a room was never joined within the
// configured timeout. The payload names the channel pair, so the deletion
// still happens when the room predates this process and is untracked. A
// room that is gone already is tolerated by the platform.
func (m *Manager) HandleInactivityExpiry(payload string) {
	voiceID, textID, _ := strings.Cut(payload, "|")

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rooms[voiceID]; ok {
		m.deleteRoom(voiceID, r, "Inactivity")
		return
	}

	room := CreatedRoom{VoiceChannelID: voiceID, TextChannelID: textID}
	if err := m.platform.DeleteRoom(room, "Inactivity"); err != nil {
		log.Printf("Error deleting untracked community room %s: %v", voiceID, err)
		return
	}
	log.Printf("Untracked community room %s has been deleted (Inactivity).", voiceID)
}

// deleteRoom removes the channel pair and drops the tracking entry. Callers
// hold the mutex.
func (m *Manager) deleteRoom(voiceChannelID string, r *trackedRoom, reason string) {
	delete(m.rooms, voiceChannelID)
	m.jobs.Cancel(inactivityKey(voiceChannelID))

	if err := m.platform.DeleteRoom(r.room, reason); err != nil {
		log.Printf("Error deleting community room %s: %v", voiceChannelID, err)
		return
	}
	log.Printf("Empty community room %s has been automatically deleted (%s).", voiceChannelID, reason)
}
