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
	emojiUpvote   = "👍"
	emojiDownvote = "👎"
)

func suggestionColor(status model.SuggestionStatus) int {
	switch status {
	case model.SuggestionApproved:
		return 0x2ECC71
	case model.SuggestionDenied:
		return 0xE74C3C
	case model.SuggestionConsidered:
		return 0xF1C40F
	case model.SuggestionImplemented:
		return 0x3498DB
	}
	return 0x95A5A6
}

// HandleSuggest posts a member's suggestion with voting reactions.
func HandleSuggest(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	text := opts["suggestion"].StringValue()
	authorID := i.Member.User.ID

	id, err := database.AddSuggestion(b.DB, authorID, time.Now())
	if err != nil {
		log.Printf("Error persisting suggestion by %s: %v", authorID, err)
		utils.SendErrorResponse(s, i, "Could not submit your suggestion. Please try again later.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Suggestion #%d", id),
		Description: text,
		Color:       suggestionColor(model.SuggestionUndecided),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Status: " + model.SuggestionUndecided.String()},
		Author:      &discordgo.MessageEmbedAuthor{Name: memberDisplayName(i.Member)},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	msg, err := s.ChannelMessageSendEmbed(b.Config.SuggestionChannelID, embed)
	if err != nil {
		log.Printf("Error posting suggestion %d: %v", id, err)
		utils.SendErrorResponse(s, i, "Could not submit your suggestion. Please try again later.")
		return
	}
	if err := database.SetSuggestionMessageID(b.DB, id, msg.ID); err != nil {
		log.Printf("Error linking suggestion %d to message %s: %v", id, msg.ID, err)
	}

	for _, emoji := range []string{emojiUpvote, emojiDownvote} {
		if err := s.MessageReactionAdd(b.Config.SuggestionChannelID, msg.ID, emoji); err != nil {
			log.Printf("Error adding reaction %s to suggestion %d: %v", emoji, id, err)
		}
	}
	utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Your suggestion has been submitted as #%d!", id))
}

// HandleSuggestionStatus sets the status of a suggestion and updates its
// posted embed.
func HandleSuggestionStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	id := opts["id"].IntValue()

	var status model.SuggestionStatus
	switch opts["status"].StringValue() {
	case "approved":
		status = model.SuggestionApproved
	case "denied":
		status = model.SuggestionDenied
	case "considered":
		status = model.SuggestionConsidered
	case "implemented":
		status = model.SuggestionImplemented
	}

	exists, err := database.SetSuggestionStatus(b.DB, id, status)
	if err != nil {
		log.Printf("Error updating suggestion %d: %v", id, err)
		utils.SendErrorResponse(s, i, "Could not update the suggestion. Please try again later.")
		return
	}
	if !exists {
		utils.SendErrorResponse(s, i, fmt.Sprintf("There is no suggestion with the id %d.", id))
		return
	}

	suggestion, err := database.GetSuggestion(b.DB, id)
	if err == nil && suggestion != nil && suggestion.MessageID != "" {
		updateSuggestionEmbed(s, b, suggestion.MessageID, status)
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("✅ Suggestion #%d is now marked as %s.", id, status))
}

// HandleSuggestionReactionAdd drops votes on suggestions that have already
// been decided.
func HandleSuggestionReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd, b *bot.Bot) {
	if r.ChannelID != b.Config.SuggestionChannelID || r.UserID == s.State.User.ID {
		return
	}
	if r.Emoji.Name != emojiUpvote && r.Emoji.Name != emojiDownvote {
		return
	}

	status, tracked, err := database.GetSuggestionStatusByMessage(b.DB, r.MessageID)
	if err != nil {
		log.Printf("Error looking up suggestion for message %s: %v", r.MessageID, err)
		return
	}
	if !votingClosed(status, tracked) {
		return
	}
	if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID); err != nil {
		log.Printf("Error removing late vote on message %s: %v", r.MessageID, err)
	}
}

// votingClosed reports whether votes on the message no longer count: the
// message is a tracked suggestion and a decision has been made.
func votingClosed(status model.SuggestionStatus, tracked bool) bool {
	return tracked && status != model.SuggestionUndecided
}

func updateSuggestionEmbed(s *discordgo.Session, b *bot.Bot, messageID string, status model.SuggestionStatus) {
	msg, err := s.ChannelMessage(b.Config.SuggestionChannelID, messageID)
	if err != nil || len(msg.Embeds) == 0 {
		log.Printf("Error fetching suggestion message %s: %v", messageID, err)
		return
	}
	embed := msg.Embeds[0]
	embed.Color = suggestionColor(status)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Status: " + status.String()}
	if _, err := s.ChannelMessageEditEmbed(b.Config.SuggestionChannelID, messageID, embed); err != nil {
		log.Printf("Error updating suggestion message %s: %v", messageID, err)
	}
}
