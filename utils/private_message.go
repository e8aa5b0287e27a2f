package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// sendDirect delivers a message to a user's DM channel. DMs are best-effort,
// the user may have them disabled, so failures are logged only.
func sendDirect(s *discordgo.Session, userID string, msg *discordgo.MessageSend) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Printf("Error opening DM channel with user %s: %v", userID, err)
		return
	}
	if _, err := s.ChannelMessageSendComplex(channel.ID, msg); err != nil {
		log.Printf("Error delivering DM to user %s: %v", userID, err)
	}
}

// SendPrivateMessage DMs a plain text message to a user.
func SendPrivateMessage(s *discordgo.Session, userID, message string) {
	sendDirect(s, userID, &discordgo.MessageSend{Content: message})
}

// SendPrivateEmbedMessage DMs an embed to a user.
func SendPrivateEmbedMessage(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) {
	sendDirect(s, userID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}
