package handlers

import (
	"log"

	"sam-bot/bot"
	"sam-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Register wires the command handlers and gateway event listeners.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	moderatorOnly := func(h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if i.Member == nil || !utils.IsModerator(i.Member.Roles, b.Config.ModeratorRoleID) {
				utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
				return
			}
			h(s, i, b)
		}
	}
	anyone := func(h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}

	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"warn":              moderatorOnly(HandleWarn),
		"warnings":          anyone(HandleWarnings),
		"warning-remove":    moderatorOnly(HandleWarningRemove),
		"warning-clear":     moderatorOnly(HandleWarningClear),
		"mute":              moderatorOnly(HandleMute),
		"unmute":            moderatorOnly(HandleUnmute),
		"tempmute":          moderatorOnly(HandleTempmute),
		"ban":               moderatorOnly(HandleBan),
		"tempban":           moderatorOnly(HandleTempban),
		"kick":              moderatorOnly(HandleKick),
		"studyroom":         anyone(HandleStudyRoom),
		"gameroom":          anyone(HandleGameRoom),
		"modmail":           anyone(HandleModmail),
		"modmail-list":      moderatorOnly(HandleModmailList),
		"suggest":           anyone(HandleSuggest),
		"suggestion-status": moderatorOnly(HandleSuggestionStatus),
		"namehistory":       moderatorOnly(HandleNameHistory),
		"botinfo":           anyone(HandleBotInfo),
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		if err := b.Rooms.Restore(); err != nil {
			log.Printf("Error restoring community room tracking: %v", err)
		}
		utils.SendModLog(s, b.Config.ModLogChannelID, utils.ModLogEntry{
			Action:    "Startup",
			Color:     utils.ColorModLogRoom,
			Moderator: "System",
			Reason:    "Bot has started successfully.",
		})
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		HandleVoiceStateUpdate(s, v, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		HandleModmailReactionAdd(s, r, b)
		HandleSuggestionReactionAdd(s, r, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		HandleModmailReactionRemove(s, r, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
		HandleGuildMemberUpdate(s, m, b)
	})
}

// optionMap indexes the interaction options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// memberDisplayName returns the name the member shows up with on the server.
func memberDisplayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
