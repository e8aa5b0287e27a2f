package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"sam-bot/bot"
	"sam-bot/utils"
	"sam-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

// HandleGuildMemberUpdate records the previous display name whenever a
// member changes theirs.
func HandleGuildMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate, b *bot.Bot) {
	if m.BeforeUpdate == nil {
		return
	}
	oldName := memberDisplayName(m.BeforeUpdate)
	newName := memberDisplayName(m.Member)
	if oldName == "" || oldName == newName {
		return
	}

	if err := database.AddMemberName(b.DB, m.User.ID, oldName, time.Now()); err != nil {
		log.Printf("Error recording name change of member %s: %v", m.User.ID, err)
		return
	}
	log.Printf("Member %s changed their name from %q to %q.", m.User.ID, oldName, newName)
}

// HandleNameHistory lists the recent former display names of a member.
func HandleNameHistory(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	names, err := database.GetMemberNames(b.DB, user.ID, b.Config.Moderation.NameHistoryLimit)
	if err != nil {
		log.Printf("Error loading name history of member %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Could not load the name history. Please try again later.")
		return
	}
	if len(names) == 0 {
		utils.SendEphemeralResponse(s, i, fmt.Sprintf("<@%s> has no recorded name changes.", user.ID))
		return
	}

	var sb strings.Builder
	for _, record := range names {
		fmt.Fprintf(&sb, "**%s** — until %s\n", record.Name, record.RecordedAt.Format("02.01.2006 15:04"))
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Name history (%d)", len(names)),
		Description: fmt.Sprintf("Former names of <@%s>:\n\n%s", user.ID, sb.String()),
		Color:       utils.ColorModLogRoom,
	})
}
