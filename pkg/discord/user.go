package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/parse"
)

const userDateFormat = "Jan 2, 2006 15:04 UTC"

type userCommand struct {
	// mutualGuilds lists the names of guilds the bot shares with a user.
	// Nil outside a full bot wiring (tests may leave it unset).
	mutualGuilds func(userID string) []string
}

func (c *userCommand) Info() command.Info {
	return command.Info{
		Name:        "user",
		Description: "Shows information about a guild member.",
		Usage:       "<user|id> [admin [mutual]]",
		Aliases:     []string{"whois", "userinfo"},
	}
}

func (c *userCommand) Run(ctx *command.Context) (command.Result, error) {
	if !ctx.Event.FromGuild() {
		return command.Warning("This command is not available in DMs."), nil
	}

	args := ctx.Args
	admin, mutual := false, false
	if ctx.Elevated {
		// Operators can append "admin" to inspect ids of users who are
		// not in the guild, and "admin mutual" to list shared guilds.
		if i := parse.FlagIndex(args, "admin"); i >= 0 {
			admin = true
			args = parse.RemoveAt(args, i)
			if j := parse.FlagIndex(args, "mutual"); j >= 0 {
				mutual = true
				args = parse.RemoveAt(args, j)
			}
		}
	}

	if len(args) == 0 {
		return command.Warning(":warning: You must specify a user!"), nil
	}

	member, warning, err := resolveMemberArg(ctx, args[0])
	if err != nil {
		return command.Result{}, err
	}
	if warning != nil {
		if admin && parse.IsID(args[0]) {
			return c.snowflakeInfo(args[0], mutual), nil
		}
		return *warning, nil
	}

	embed := &discordgo.MessageEmbed{
		Title: member.Tag,
		Color: member.Color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: member.AvatarURL,
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: member.ID, Inline: true},
		},
	}
	if embed.Color == 0 {
		embed.Color = embedColor
	}

	if member.Nick != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Nickname", Value: member.Nick, Inline: true,
		})
	}
	if member.Bot {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Bot", Value: "Yes", Inline: true,
		})
	}
	if !member.CreatedAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Account Created", Value: member.CreatedAt.UTC().Format(userDateFormat),
		})
	}
	if !member.JoinedAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Joined Server", Value: member.JoinedAt.UTC().Format(userDateFormat),
		})
	}
	if member.BoostedAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Boosting Since", Value: member.BoostedAt.UTC().Format(userDateFormat),
		})
	}
	if len(member.RoleMentions) > 0 {
		shown := member.RoleMentions
		if len(shown) > 10 {
			shown = shown[:10]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Roles (%d)", len(member.RoleMentions)),
			Value: strings.Join(shown, " "),
		})
	}
	if mutual {
		embed.Fields = append(embed.Fields, c.mutualGuildsField(member.ID))
	}

	return command.SuccessEmbed(embed), nil
}

// snowflakeInfo derives what it can from an id alone, for users the bot
// cannot see.
func (c *userCommand) snowflakeInfo(id string, mutual bool) command.Result {
	created, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return command.Warning(":warning: Not a valid ID.")
	}
	embed := &discordgo.MessageEmbed{
		Title: "Unknown User",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: id, Inline: true},
			{Name: "Account Created", Value: created.In(time.UTC).Format(userDateFormat)},
		},
	}
	if mutual {
		embed.Fields = append(embed.Fields, c.mutualGuildsField(id))
	}
	return command.SuccessEmbed(embed)
}

func (c *userCommand) mutualGuildsField(userID string) *discordgo.MessageEmbedField {
	value := "(none)"
	if c.mutualGuilds != nil {
		if names := c.mutualGuilds(userID); len(names) > 0 {
			value = strings.Join(names, "\n")
		}
	}
	return &discordgo.MessageEmbedField{Name: "Mutual Guilds", Value: value}
}
