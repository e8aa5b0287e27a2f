package handlers

import (
	"fmt"
	"log"
	"time"

	"sam-bot/bot"
	"sam-bot/model"
	"sam-bot/utils"
	"sam-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	emojiModmailDone   = "✅"
	emojiModmailAssign = "📝"
)

func modmailColor(status model.ModmailStatus) int {
	switch status {
	case model.ModmailInProgress:
		return 0xFEE75C
	case model.ModmailClosed:
		return 0x57F287
	}
	return 0xED4245
}

// HandleModmail posts a member's message to the moderator channel and
// tracks it as an open ticket.
func HandleModmail(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	message := opts["message"].StringValue()
	author := memberDisplayName(i.Member)

	embed := &discordgo.MessageEmbed{
		Title:       "Modmail 📨",
		Description: message,
		Color:       modmailColor(model.ModmailOpen),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Sent by: " + author},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	msg, err := s.ChannelMessageSendEmbed(b.Config.ModmailChannelID, embed)
	if err != nil {
		log.Printf("Error posting modmail from %s: %v", author, err)
		utils.SendErrorResponse(s, i, "Could not deliver your message. Please try again later.")
		return
	}

	if err := database.AddModmail(b.DB, msg.ID, author, time.Now()); err != nil {
		log.Printf("Error persisting modmail %s: %v", msg.ID, err)
		utils.SendErrorResponse(s, i, "Could not deliver your message. Please try again later.")
		return
	}

	for _, emoji := range []string{emojiModmailAssign, emojiModmailDone} {
		if err := s.MessageReactionAdd(b.Config.ModmailChannelID, msg.ID, emoji); err != nil {
			log.Printf("Error adding reaction %s to modmail %s: %v", emoji, msg.ID, err)
		}
	}
	utils.SendEphemeralResponse(s, i, "✅ Your message has been forwarded to the moderator team!")
}

// HandleModmailList lists tickets with the requested status.
func HandleModmailList(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	var status model.ModmailStatus
	switch opts["status"].StringValue() {
	case "open":
		status = model.ModmailOpen
	case "in-progress":
		status = model.ModmailInProgress
	case "closed":
		status = model.ModmailClosed
	}

	tickets, err := database.GetModmailWithStatus(b.DB, status)
	if err != nil {
		log.Printf("Error listing modmail with status %s: %v", status, err)
		utils.SendErrorResponse(s, i, "Could not load the tickets. Please try again later.")
		return
	}
	if len(tickets) == 0 {
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("There are no tickets with status %q.", status))
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(tickets))
	for _, t := range tickets {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s — %s", t.Author, t.CreatedAt.Format("02.01.2006 15:04")),
			Value: fmt.Sprintf("https://discord.com/channels/%s/%s/%s",
				b.Config.GuildID, b.Config.ModmailChannelID, t.MessageID),
		})
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Modmail: %s (%d)", status, len(tickets)),
		Color:  modmailColor(status),
		Fields: fields,
	})
}

// HandleModmailReactionAdd advances a ticket when a moderator reacts on it.
// The done emoji closes the ticket, the assign emoji marks it in progress.
func HandleModmailReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd, b *bot.Bot) {
	if r.ChannelID != b.Config.ModmailChannelID || r.UserID == s.State.User.ID {
		return
	}
	if r.Member == nil || !utils.IsModerator(r.Member.Roles, b.Config.ModeratorRoleID) {
		return
	}

	status, ok, err := database.GetModmailStatus(b.DB, r.MessageID)
	if err != nil || !ok {
		return
	}

	switch r.Emoji.Name {
	case emojiModmailDone:
		setModmailStatus(s, b, r.MessageID, model.ModmailClosed)
	case emojiModmailAssign:
		if status == model.ModmailOpen {
			setModmailStatus(s, b, r.MessageID, model.ModmailInProgress)
		}
	}
}

// HandleModmailReactionRemove rolls a ticket back when a status reaction is
// withdrawn. Removing the done emoji reopens the ticket as in progress if
// someone is still assigned, otherwise as open.
func HandleModmailReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove, b *bot.Bot) {
	if r.ChannelID != b.Config.ModmailChannelID || r.UserID == s.State.User.ID {
		return
	}
	// The remove event carries no member, look the reactor up.
	member, err := s.State.Member(r.GuildID, r.UserID)
	if err != nil {
		if member, err = s.GuildMember(r.GuildID, r.UserID); err != nil {
			return
		}
	}
	if !utils.IsModerator(member.Roles, b.Config.ModeratorRoleID) {
		return
	}

	status, ok, err := database.GetModmailStatus(b.DB, r.MessageID)
	if err != nil || !ok {
		return
	}

	switch r.Emoji.Name {
	case emojiModmailDone:
		if status != model.ModmailClosed {
			return
		}
		next := model.ModmailOpen
		if reactionCount(s, r.ChannelID, r.MessageID, emojiModmailAssign) > 1 {
			next = model.ModmailInProgress
		}
		setModmailStatus(s, b, r.MessageID, next)
	case emojiModmailAssign:
		if status == model.ModmailInProgress {
			setModmailStatus(s, b, r.MessageID, model.ModmailOpen)
		}
	}
}

// reactionCount returns how many users reacted with the emoji, the bot's
// own seed reaction included.
func reactionCount(s *discordgo.Session, channelID, messageID, emoji string) int {
	msg, err := s.ChannelMessage(channelID, messageID)
	if err != nil {
		log.Printf("Error fetching modmail message %s: %v", messageID, err)
		return 0
	}
	for _, reaction := range msg.Reactions {
		if reaction.Emoji.Name == emoji {
			return reaction.Count
		}
	}
	return 0
}

// setModmailStatus persists the transition and recolors the ticket embed.
func setModmailStatus(s *discordgo.Session, b *bot.Bot, messageID string, status model.ModmailStatus) {
	if err := database.SetModmailStatus(b.DB, messageID, status); err != nil {
		log.Printf("Error updating modmail %s: %v", messageID, err)
		return
	}

	msg, err := s.ChannelMessage(b.Config.ModmailChannelID, messageID)
	if err != nil || len(msg.Embeds) == 0 {
		log.Printf("Error fetching modmail message %s for recoloring: %v", messageID, err)
		return
	}
	embed := msg.Embeds[0]
	embed.Color = modmailColor(status)
	if _, err := s.ChannelMessageEditEmbed(b.Config.ModmailChannelID, messageID, embed); err != nil {
		log.Printf("Error recoloring modmail %s: %v", messageID, err)
	}
	log.Printf("Modmail ticket %s is now %s.", messageID, status)
}
