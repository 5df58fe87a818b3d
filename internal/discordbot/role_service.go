package discordbot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/KayJJUNE/steam-bot/internal/reward"
)

// DiscordRoleService adapts discordgo's guild endpoints to the dispatcher's
// RoleService. Permission failures are mapped to reward.ErrForbidden so the
// dispatcher can tell misconfiguration from flaky transport.
type DiscordRoleService struct {
	session *discordgo.Session
}

func NewDiscordRoleService(session *discordgo.Session) *DiscordRoleService {
	return &DiscordRoleService{session: session}
}

func (s *DiscordRoleService) RoleExists(_ context.Context, guildID, roleID string) (bool, error) {
	roles, err := s.session.GuildRoles(guildID)
	if err != nil {
		return false, mapRESTError(err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (s *DiscordRoleService) MemberHasRole(_ context.Context, guildID, userID, roleID string) (bool, error) {
	member, err := s.session.GuildMember(guildID, userID)
	if err != nil {
		return false, mapRESTError(err)
	}
	for _, held := range member.Roles {
		if held == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (s *DiscordRoleService) AddMemberRole(_ context.Context, guildID, userID, roleID string) error {
	if err := s.session.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return mapRESTError(err)
	}
	return nil
}

func mapRESTError(err error) error {
	if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil {
		if restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %v", reward.ErrForbidden, err)
		}
	}
	return err
}
