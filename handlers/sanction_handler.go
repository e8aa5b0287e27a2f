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

// HandleMute mutes a member indefinitely.
func HandleMute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	err := b.Engine.Mute(user.ID, reason, moderation.Actor{ID: i.Member.User.ID})
	if errors.Is(err, moderation.ErrAlreadySanctioned) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("<@%s> is already muted.", user.ID))
		return
	}
	if err != nil {
		log.Printf("Error muting member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not mute the member. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("🔇 <@%s> has been muted.", user.ID))
}

// HandleUnmute lifts a mute early.
func HandleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := "No reason provided."
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	err := b.Engine.Unmute(user.ID, reason, moderation.Actor{ID: i.Member.User.ID})
	if errors.Is(err, moderation.ErrNotSanctioned) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("<@%s> is not muted.", user.ID))
		return
	}
	if err != nil {
		log.Printf("Error unmuting member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not unmute the member. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("🔊 <@%s> is no longer muted.", user.ID))
}

// HandleTempmute mutes a member for a limited time.
func HandleTempmute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleTemporarySanction(s, i, b, moderation.SanctionMute)
}

// HandleTempban bans a member for a limited time.
func HandleTempban(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleTemporarySanction(s, i, b, moderation.SanctionBan)
}

func handleTemporarySanction(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, kind moderation.SanctionKind) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	duration := opts["duration"].StringValue()
	reason := opts["reason"].StringValue()

	expiresAt, err := b.Engine.ApplyTemporarySanction(user.ID, kind, duration, reason,
		moderation.Actor{ID: i.Member.User.ID})
	if errors.Is(err, moderation.ErrInvalidDuration) {
		utils.SendErrorResponse(s, i,
			fmt.Sprintf("The duration %q is not valid. Try something like 30m, 12h, 3d or 1w.", duration))
		return
	}
	if errors.Is(err, moderation.ErrAlreadySanctioned) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("<@%s> is already muted.", user.ID))
		return
	}
	if err != nil {
		log.Printf("Error applying temporary %s to member %s: %v", kind, user.ID, err)
		utils.SendErrorResponse(s, i, "Could not apply the sanction. Please try again later.")
		return
	}

	emoji := "🔇"
	verb := "muted"
	if kind == moderation.SanctionBan {
		emoji = "🚯"
		verb = "banned"
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("%s <@%s> has been temporarily %s until %s.",
		emoji, user.ID, verb, expiresAt.Format("02.01.2006 15:04")))
}

// HandleBan bans a member permanently.
func HandleBan(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	if err := b.Engine.Ban(user.ID, reason, moderation.Actor{ID: i.Member.User.ID}); err != nil {
		log.Printf("Error banning member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not ban the member. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("🚯 <@%s> has been banned from the server.", user.ID))
}

// HandleKick kicks a member from the server.
func HandleKick(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	if err := b.Engine.Kick(user.ID, reason, moderation.Actor{ID: i.Member.User.ID}); err != nil {
		log.Printf("Error kicking member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not kick the member. Please try again later.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("💢 <@%s> has been kicked from the server.", user.ID))
}
