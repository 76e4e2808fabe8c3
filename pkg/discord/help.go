package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/settings"
)

const helpPageSize = 8

type helpCommand struct {
	registry *command.Registry
	menus    *menuManager
	session  *discordgo.Session
}

func (c *helpCommand) Info() command.Info {
	return command.Info{
		Name:        "help",
		Description: "Shows the command list, or details for one command.",
		Usage:       "[command]",
		Aliases:     []string{"commands"},
	}
}

func (c *helpCommand) Run(ctx *command.Context) (command.Result, error) {
	if len(ctx.Args) > 0 {
		return c.commandDetail(ctx, ctx.Args[0])
	}
	return c.commandList(ctx)
}

func (c *helpCommand) commandDetail(ctx *command.Context, name string) (command.Result, error) {
	cmd, ok := c.registry.Lookup(strings.ToLower(name))
	if !ok {
		return command.Warning(":warning: That command does not exist."), nil
	}
	info := cmd.Info()
	if info.Elevated && !ctx.Elevated {
		return command.Warning(":warning: That command does not exist."), nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Help: " + info.Name,
		Description: info.Description,
		Color:       embedColor,
	}

	usage := ctx.Prefix + info.Name
	if info.Usage != "" {
		usage += " " + info.Usage
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Usage", Value: "`" + usage + "`",
	})
	if len(info.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Aliases", Value: strings.Join(info.Aliases, ", "),
		})
	}
	if info.Cooldown > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Cooldown", Value: fmt.Sprintf("%.1fs", info.Cooldown.Seconds()),
		})
	}

	return command.SuccessEmbed(embed), nil
}

func (c *helpCommand) commandList(ctx *command.Context) (command.Result, error) {
	var lines []string
	for _, cmd := range c.registry.All() {
		info := cmd.Info()
		if info.Hidden {
			continue
		}
		if info.Elevated && !ctx.Elevated {
			continue
		}
		lines = append(lines, fmt.Sprintf("`%s%s` - %s", ctx.Prefix, info.Name, info.Description))
	}

	useMenus := false
	if ctx.Event.FromGuild() {
		v, err := settings.UseMenus.Effective(ctx.Settings, ctx.Event.GuildID, ctx.Event.ChannelID)
		if err == nil {
			useMenus = v
		}
	}

	if useMenus && len(lines) > helpPageSize && c.session != nil {
		pages := buildHelpPages(lines)
		if err := c.menus.Open(c.session, ctx.Event.ChannelID, ctx.Event.AuthorID, pages); err != nil {
			return command.Result{}, err
		}
		// The menu is the reply; nothing more to send.
		return command.Result{Outcome: command.OutcomeSuccess}, nil
	}

	return command.SuccessEmbed(&discordgo.MessageEmbed{
		Title:       "Commands",
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
	}), nil
}

func buildHelpPages(lines []string) []*discordgo.MessageEmbed {
	total := (len(lines) + helpPageSize - 1) / helpPageSize

	var pages []*discordgo.MessageEmbed
	for i := 0; i < len(lines); i += helpPageSize {
		end := i + helpPageSize
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, &discordgo.MessageEmbed{
			Title:       "Commands",
			Description: strings.Join(lines[i:end], "\n"),
			Color:       embedColor,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d", len(pages)+1, total),
			},
		})
	}
	return pages
}
