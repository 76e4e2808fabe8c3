package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/parse"
)

// guildMemberSource adapts a discordgo session to the member lookup
// interface, preferring state cache over REST calls.
type guildMemberSource struct {
	session *discordgo.Session
	guildID string
}

func newMemberProvider(session *discordgo.Session) command.MemberProvider {
	return func(guildID string) parse.MemberSource {
		return &guildMemberSource{session: session, guildID: guildID}
	}
}

func (g *guildMemberSource) MemberByID(id string) (*parse.Member, error) {
	member, err := g.session.State.Member(g.guildID, id)
	if err != nil {
		member, err = g.session.GuildMember(g.guildID, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", parse.ErrMemberNotFound, err)
		}
	}
	return g.convert(member), nil
}

func (g *guildMemberSource) MemberByTag(tag string) (*parse.Member, error) {
	guild, err := g.session.State.Guild(g.guildID)
	if err == nil {
		for _, member := range guild.Members {
			if member.User != nil && strings.EqualFold(memberTag(member.User), tag) {
				return g.convert(member), nil
			}
		}
	}

	// Fall back to one REST page for guilds with a cold state cache.
	members, err := g.session.GuildMembers(g.guildID, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", parse.ErrMemberNotFound, err)
	}
	for _, member := range members {
		if member.User != nil && strings.EqualFold(memberTag(member.User), tag) {
			return g.convert(member), nil
		}
	}
	return nil, parse.ErrMemberNotFound
}

func (g *guildMemberSource) convert(m *discordgo.Member) *parse.Member {
	created, _ := discordgo.SnowflakeTimestamp(m.User.ID)

	out := &parse.Member{
		ID:        m.User.ID,
		Tag:       memberTag(m.User),
		Nick:      m.Nick,
		AvatarURL: m.User.AvatarURL("256"),
		Bot:       m.User.Bot,
		JoinedAt:  m.JoinedAt,
		CreatedAt: created,
		BoostedAt: m.PremiumSince,
	}

	guild, err := g.session.State.Guild(g.guildID)
	if err != nil {
		for _, id := range m.Roles {
			out.RoleMentions = append(out.RoleMentions, "<@&"+id+">")
		}
		return out
	}

	roles := memberRoles(guild, m.Roles)
	for _, role := range roles {
		out.RoleMentions = append(out.RoleMentions, role.Mention())
		if out.Color == 0 && role.Color != 0 {
			out.Color = role.Color
		}
	}
	return out
}

func memberTag(u *discordgo.User) string {
	return u.Username + "#" + u.Discriminator
}

// memberRoles resolves role ids against the guild, highest position first.
func memberRoles(guild *discordgo.Guild, ids []string) []*discordgo.Role {
	byID := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		byID[role.ID] = role
	}

	var roles []*discordgo.Role
	for _, id := range ids {
		if role, ok := byID[id]; ok {
			roles = append(roles, role)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position > roles[j].Position
	})
	return roles
}
