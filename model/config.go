package model

import "time"

// Config holds everything the bot needs at runtime. Secrets and Discord IDs
// come from the environment, tunables from config.yaml.
type Config struct {
	BotToken string
	AppID    string
	GuildID  string

	ModLogChannelID     string
	ModmailChannelID    string
	SuggestionChannelID string
	RulesChannelID      string

	GameRoomCategoryID  string
	StudyRoomCategoryID string

	ModeratorRoleID string
	MutedRoleID     string

	DBPath string

	Moderation ModerationConfig `mapstructure:"moderation"`
	Rooms      RoomConfig       `mapstructure:"rooms"`
}

// EscalationStep describes the automatic sanction applied when a member's
// warning count hits the configured threshold exactly.
type EscalationStep struct {
	Action   string `mapstructure:"action"`   // tempmute, tempban or ban
	Duration string `mapstructure:"duration"` // empty for permanent actions
}

type ModerationConfig struct {
	// Escalation maps an exact warning count to the sanction it triggers.
	Escalation       map[int]EscalationStep `mapstructure:"escalation"`
	NameHistoryLimit int                    `mapstructure:"name_history_limit"`
}

type RoomConfig struct {
	Cap               int           `mapstructure:"cap"`
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout"`
	VoiceBitrate      int           `mapstructure:"voice_bitrate"`
}
