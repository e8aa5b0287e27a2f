package handlers

import (
	"errors"
	"fmt"
	"log"

	"sam-bot/bot"
	"sam-bot/moderation"
	"sam-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleWarn warns a member. The engine takes care of automatic escalation
// once the configured thresholds are reached.
func HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	_, count, err := b.Engine.AddWarning(user.ID, reason, moderation.Actor{ID: i.Member.User.ID})
	if err != nil {
		log.Printf("Error warning member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not warn the member. Please try again later.")
		return
	}

	utils.SendPrivateEmbedMessage(s, user.ID, warningNotice(reason, count))
	utils.SendPublicResponse(s, i,
		fmt.Sprintf("⚠️ <@%s> has been warned and now has a total of %d warning(s).", user.ID, count))
}

// warningNotice is the DM a member receives when they are warned.
func warningNotice(reason string, count int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Warning ⚠️",
		Color: utils.ColorModLogWarn,
		Description: fmt.Sprintf("You have been warned. Please stick to the server rules, "+
			"additional warnings lead to harsher penalties.\n\n**Reason:** %s\n**Active warnings:** %d",
			reason, count),
	}
}

// HandleWarnings lists a member's active warnings. Non-moderators can only
// look at their own.
func HandleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	if i.Member == nil {
		return
	}
	if user.ID != i.Member.User.ID && !utils.IsModerator(i.Member.Roles, b.Config.ModeratorRoleID) {
		utils.SendErrorResponse(s, i, "You can only look at your own warnings.")
		return
	}

	warnings, err := b.Engine.ListWarnings(user.ID)
	if err != nil {
		log.Printf("Error listing warnings for member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not load the warnings. Please try again later.")
		return
	}
	if len(warnings) == 0 {
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("<@%s> has no active warnings. 🎉", user.ID))
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(warnings))
	for _, w := range warnings {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d — %s", w.ID, w.CreatedAt.Format("02.01.2006 15:04")),
			Value: w.Reason,
		})
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Warnings (%d)", len(warnings)),
		Description: fmt.Sprintf("Active warnings of <@%s>:", user.ID),
		Color:       utils.ColorModLogWarn,
		Fields:      fields,
	})
}

// HandleWarningRemove removes a single warning by id.
func HandleWarningRemove(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	id := opts["id"].IntValue()
	reason := "No reason provided."
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	userID, err := b.Engine.RemoveWarning(id, reason, moderation.Actor{ID: i.Member.User.ID})
	if errors.Is(err, moderation.ErrWarningNotFound) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("There is no warning with the id %d.", id))
		return
	}
	if err != nil {
		log.Printf("Error removing warning %d: %v", id, err)
		utils.SendErrorResponse(s, i, "Could not remove the warning. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i,
		fmt.Sprintf("✅ Warning #%d of <@%s> has been removed.", id, userID))
}

// HandleWarningClear removes all warnings of a member.
func HandleWarningClear(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := "No reason provided."
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := b.Engine.ClearWarnings(user.ID, reason, moderation.Actor{ID: i.Member.User.ID}); err != nil {
		log.Printf("Error clearing warnings for member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not clear the warnings. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i,
		fmt.Sprintf("✅ All warnings of <@%s> have been removed.", user.ID))
}
