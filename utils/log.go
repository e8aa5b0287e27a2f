package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// Mod log embed colors, one per action family.
const (
	ColorModLogWarn   = 0xFF9D00
	ColorModLogMute   = 0x34EBEB
	ColorModLogBan    = 0xDC143C
	ColorModLogKick   = 0xDC143C
	ColorModLogRepeal = 0xF5F50C
	ColorModLogRoom   = 0x5C2BE2
)

// ModLogEntry describes a moderation action for the mod log channel.
type ModLogEntry struct {
	Action    string
	Color     int
	Moderator string // display string, "System" for bot-initiated actions
	UserID    string // affected member, may be empty
	Reason    string
	Details   string
}

// SendModLog posts a moderation log embed to the configured channel.
// Failures are logged, never retried.
func SendModLog(s *discordgo.Session, channelID string, entry ModLogEntry) {
	if channelID == "" {
		return
	}

	description := ""
	if entry.UserID != "" {
		description += "**Member:** <@" + entry.UserID + ">\n"
	}
	description += "**Moderator:** " + entry.Moderator
	if entry.Reason != "" {
		description += "\n**Reason:** " + entry.Reason
	}
	if entry.Details != "" {
		description += "\n**Details:** " + entry.Details
	}

	embed := &discordgo.MessageEmbed{
		Title:       entry.Action,
		Color:       entry.Color,
		Description: description,
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Error sending mod log entry %q: %v", entry.Action, err)
	}
}
