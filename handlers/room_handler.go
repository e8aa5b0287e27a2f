package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"sam-bot/bot"
	"sam-bot/rooms"
	"sam-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleStudyRoom creates a temporary study room.
func HandleStudyRoom(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleRoomCreate(s, i, b, rooms.CategoryStudy)
}

// HandleGameRoom creates a temporary game room.
func HandleGameRoom(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleRoomCreate(s, i, b, rooms.CategoryGame)
}

func handleRoomCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, category rooms.Category) {
	opts := optionMap(i)
	var name string
	var userLimit int
	if opt, ok := opts["name"]; ok {
		name = opt.StringValue()
	}
	if opt, ok := opts["user-limit"]; ok {
		userLimit = int(opt.IntValue())
	}
	// A lone numeric "name" is read as the user limit.
	if name != "" && userLimit == 0 {
		if n, err := strconv.Atoi(name); err == nil {
			userLimit = n
			name = ""
		}
	}

	_, finalName, err := b.Rooms.CreateRoom(category, i.Member.User.ID, memberDisplayName(i.Member), name, userLimit)
	switch {
	case errors.Is(err, rooms.ErrTooManyRooms):
		utils.SendErrorResponse(s, i, "There are too many community rooms of this kind at the moment. Please try again later.")
		return
	case errors.Is(err, rooms.ErrInvalidUserLimit):
		utils.SendErrorResponse(s, i, "The user limit cannot be outside the range from 1 to 99.")
		return
	case errors.Is(err, rooms.ErrDuplicateRoom):
		utils.SendErrorResponse(s, i, "Please delete your existing game room before creating another one.")
		return
	case err != nil:
		log.Printf("Error creating %s room for member %s: %v", category, i.Member.User.ID, err)
		utils.SendErrorResponse(s, i, "Could not create the room. Please try again later.")
		return
	}

	utils.SendEphemeralResponse(s, i, fmt.Sprintf("✅ Your %s room %q has been created!", category, finalName))
	utils.SendModLog(s, b.Config.ModLogChannelID, utils.ModLogEntry{
		Action:    "Community Room Created 🏠",
		Color:     utils.ColorModLogRoom,
		Moderator: "<@" + i.Member.User.ID + ">",
		Details:   fmt.Sprintf("%s room %q", category, finalName),
	})
}

// HandleVoiceStateUpdate forwards channel joins and leaves to the room
// manager.
func HandleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate, b *bot.Bot) {
	joined := v.ChannelID
	var left string
	if v.BeforeUpdate != nil {
		left = v.BeforeUpdate.ChannelID
	}
	if joined == left {
		return
	}
	b.Rooms.HandleVoiceState(joined, left)
}
