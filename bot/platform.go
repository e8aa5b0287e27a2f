package bot

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sam-bot/model"
	"sam-bot/rooms"
	"sam-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform adapts the Discord REST API to the moderation engine.
type discordPlatform struct {
	session *discordgo.Session
	cfg     *model.Config
}

func (p *discordPlatform) GrantRole(userID, roleID, reason string) error {
	return p.session.GuildMemberRoleAdd(p.cfg.GuildID, userID, roleID,
		discordgo.WithAuditLogReason(reason))
}

func (p *discordPlatform) RevokeRole(userID, roleID, reason string) error {
	return p.session.GuildMemberRoleRemove(p.cfg.GuildID, userID, roleID,
		discordgo.WithAuditLogReason(reason))
}

func (p *discordPlatform) HasRole(userID, roleID string) (bool, error) {
	member, err := p.session.State.Member(p.cfg.GuildID, userID)
	if err != nil {
		member, err = p.session.GuildMember(p.cfg.GuildID, userID)
		if err != nil {
			return false, err
		}
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (p *discordPlatform) Ban(userID, reason string) error {
	return p.session.GuildBanCreateWithReason(p.cfg.GuildID, userID, reason, 0)
}

func (p *discordPlatform) Unban(userID, reason string) error {
	return p.session.GuildBanDelete(p.cfg.GuildID, userID,
		discordgo.WithAuditLogReason(reason))
}

func (p *discordPlatform) Kick(userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(p.cfg.GuildID, userID, reason)
}

// discordNotifier delivers DMs and mod log embeds. Both are fire-and-forget.
type discordNotifier struct {
	session *discordgo.Session
	cfg     *model.Config
}

func (n *discordNotifier) NotifyUser(userID, message string) {
	utils.SendPrivateMessage(n.session, userID, message)
}

func (n *discordNotifier) NotifyModLog(entry utils.ModLogEntry) {
	utils.SendModLog(n.session, n.cfg.ModLogChannelID, entry)
}

// discordRoomPlatform adapts channel management to the room manager.
type discordRoomPlatform struct {
	session *discordgo.Session
	cfg     *model.Config
}

var (
	textNameStripPattern = regexp.MustCompile(`[^\w\s-]`)
	textNameSpacePattern = regexp.MustCompile(`\s`)
)

// textChannelName applies Discord's text channel name transformation, used
// to find the text channel paired with a voice channel.
func textChannelName(name string) string {
	name = textNameStripPattern.ReplaceAllString(strings.ToLower(name), "")
	return textNameSpacePattern.ReplaceAllString(name, "-")
}

// roomCreator extracts the creator from the voice channel's member
// overwrite carrying the channel-scoped moderation permissions.
func roomCreator(ch *discordgo.Channel) string {
	for _, overwrite := range ch.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember &&
			overwrite.Allow&discordgo.PermissionVoiceMuteMembers != 0 {
			return overwrite.ID
		}
	}
	return ""
}

// ListRooms returns the category's rooms sorted by voice channel snowflake
// id, which matches creation order. Member counts come from the gateway
// voice state cache.
func (p *discordRoomPlatform) ListRooms(categoryID string) ([]rooms.RoomState, error) {
	channels, err := p.session.GuildChannels(p.cfg.GuildID)
	if err != nil {
		return nil, err
	}

	var voice []*discordgo.Channel
	texts := make(map[string]string)
	for _, ch := range channels {
		if ch.ParentID != categoryID {
			continue
		}
		switch ch.Type {
		case discordgo.ChannelTypeGuildVoice:
			voice = append(voice, ch)
		case discordgo.ChannelTypeGuildText:
			texts[ch.Name] = ch.ID
		}
	}
	sort.Slice(voice, func(i, j int) bool {
		a, _ := strconv.ParseUint(voice[i].ID, 10, 64)
		b, _ := strconv.ParseUint(voice[j].ID, 10, 64)
		return a < b
	})

	members := make(map[string]int)
	if guild, err := p.session.State.Guild(p.cfg.GuildID); err == nil {
		for _, vs := range guild.VoiceStates {
			members[vs.ChannelID]++
		}
	}

	states := make([]rooms.RoomState, len(voice))
	for i, ch := range voice {
		states[i] = rooms.RoomState{
			Room: rooms.CreatedRoom{
				VoiceChannelID: ch.ID,
				TextChannelID:  texts[textChannelName(ch.Name)],
			},
			Name:      ch.Name,
			CreatorID: roomCreator(ch),
			Members:   members[ch.ID],
		}
	}
	return states, nil
}

func (p *discordRoomPlatform) CreateRoom(spec rooms.RoomSpec) (rooms.CreatedRoom, error) {
	creatorVoice := []*discordgo.PermissionOverwrite{{
		ID:   spec.CreatorID,
		Type: discordgo.PermissionOverwriteTypeMember,
		Allow: discordgo.PermissionVoicePrioritySpeaker |
			discordgo.PermissionVoiceMoveMembers |
			discordgo.PermissionVoiceMuteMembers |
			discordgo.PermissionVoiceDeafenMembers,
	}}
	voice, err := p.session.GuildChannelCreateComplex(p.cfg.GuildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		Bitrate:              spec.Bitrate,
		UserLimit:            spec.UserLimit,
		ParentID:             spec.CategoryID,
		PermissionOverwrites: creatorVoice,
	}, discordgo.WithAuditLogReason(spec.Reason))
	if err != nil {
		return rooms.CreatedRoom{}, err
	}

	creatorText := []*discordgo.PermissionOverwrite{{
		ID:    spec.CreatorID,
		Type:  discordgo.PermissionOverwriteTypeMember,
		Allow: discordgo.PermissionManageMessages,
	}}
	text, err := p.session.GuildChannelCreateComplex(p.cfg.GuildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                spec.Topic,
		ParentID:             spec.CategoryID,
		PermissionOverwrites: creatorText,
	}, discordgo.WithAuditLogReason(spec.Reason))
	if err != nil {
		// Roll back the voice channel, the pair is created atomically or not at all.
		if _, delErr := p.session.ChannelDelete(voice.ID); delErr != nil {
			return rooms.CreatedRoom{}, errors.Join(err, delErr)
		}
		return rooms.CreatedRoom{}, err
	}

	return rooms.CreatedRoom{VoiceChannelID: voice.ID, TextChannelID: text.ID}, nil
}

// DeleteRoom removes the channel pair. Channels deleted out from under the
// bot are not an error.
func (p *discordRoomPlatform) DeleteRoom(room rooms.CreatedRoom, reason string) error {
	for _, id := range []string{room.VoiceChannelID, room.TextChannelID} {
		if id == "" {
			continue
		}
		_, err := p.session.ChannelDelete(id, discordgo.WithAuditLogReason(reason))
		if err != nil && !isUnknownChannel(err) {
			return err
		}
	}
	return nil
}

func isUnknownChannel(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownChannel
	}
	return false
}
