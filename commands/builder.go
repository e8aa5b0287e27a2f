package commands

import (
	"github.com/bwmarrin/discordgo"
)

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "The reason for this action.",
		Required:    required,
	}
}

func durationOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: "How long the sanction should last, e.g. 30m, 12h, 3d, 1w.",
		Required:    true,
	}
}

// GenerateCommands builds the full slash command set of the bot.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "warn",
			Description: "Warn a member. Enough warnings trigger automatic sanctions.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to warn."),
				reasonOption(true),
			},
		},
		{
			Name:        "warnings",
			Description: "List the active warnings of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member whose warnings to list."),
			},
		},
		{
			Name:        "warning-remove",
			Description: "Remove a single warning by its id.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "id",
					Description: "The id of the warning to remove.",
					Required:    true,
				},
				reasonOption(false),
			},
		},
		{
			Name:        "warning-clear",
			Description: "Remove all warnings of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member whose warnings to clear."),
				reasonOption(false),
			},
		},
		{
			Name:        "mute",
			Description: "Mute a member indefinitely.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to mute."),
				reasonOption(true),
			},
		},
		{
			Name:        "unmute",
			Description: "Lift the mute of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to unmute."),
				reasonOption(false),
			},
		},
		{
			Name:        "tempmute",
			Description: "Mute a member for a limited time.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to mute."),
				durationOption(),
				reasonOption(true),
			},
		},
		{
			Name:        "ban",
			Description: "Ban a member from the server permanently.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to ban."),
				reasonOption(true),
			},
		},
		{
			Name:        "tempban",
			Description: "Ban a member from the server for a limited time.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to ban."),
				durationOption(),
				reasonOption(true),
			},
		},
		{
			Name:        "kick",
			Description: "Kick a member from the server.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member to kick."),
				reasonOption(true),
			},
		},
		{
			Name:        "studyroom",
			Description: "Create a temporary study room (voice and text channel).",
			Options:     roomOptions(),
		},
		{
			Name:        "gameroom",
			Description: "Create a temporary game room (voice and text channel).",
			Options:     roomOptions(),
		},
		{
			Name:        "modmail",
			Description: "Send a message to the moderator team.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Your message to the moderators.",
					Required:    true,
				},
			},
		},
		{
			Name:        "modmail-list",
			Description: "List modmail tickets with a given status.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "status",
					Description: "The ticket status to filter by.",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Open", Value: "open"},
						{Name: "In Progress", Value: "in-progress"},
						{Name: "Closed", Value: "closed"},
					},
				},
			},
		},
		{
			Name:        "suggest",
			Description: "Submit a suggestion for the server.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "suggestion",
					Description: "Your suggestion.",
					Required:    true,
				},
			},
		},
		{
			Name:        "suggestion-status",
			Description: "Set the status of a suggestion.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "id",
					Description: "The id of the suggestion.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "status",
					Description: "The new status.",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Approved", Value: "approved"},
						{Name: "Denied", Value: "denied"},
						{Name: "Considered", Value: "considered"},
						{Name: "Implemented", Value: "implemented"},
					},
				},
			},
		},
		{
			Name:        "namehistory",
			Description: "Show the recent display names of a member.",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("The member whose name history to show."),
			},
		},
		{
			Name:        "botinfo",
			Description: "Show runtime information about the bot and its host.",
		},
	}
}

func roomOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "The channel name. Defaults to \"{your name}'s Room\".",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "user-limit",
			Description: "The user limit of the voice channel (1-99).",
			Required:    false,
		},
	}
}
