package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/parse"
	"github.com/ethaan/craftbot/pkg/settings"
)

const manageGuildWarning = ":warning: You must have the Manage Server permission to change settings."

type settingsCommand struct{}

func (c *settingsCommand) Info() command.Info {
	return command.Info{
		Name:        "settings",
		Description: "Shows or changes the settings for this server.",
		Usage:       "[channel] [setting] [value|reset]",
	}
}

func (c *settingsCommand) Run(ctx *command.Context) (command.Result, error) {
	if !ctx.Event.FromGuild() {
		return command.Warning("This command is not available in DMs."), nil
	}

	args := ctx.Args
	scope := settings.ScopeGuild
	entityID := ctx.Event.GuildID
	// A leading "channel" token scopes the change to the current channel.
	if i := parse.FlagIndex(args, "channel"); i == 0 {
		scope = settings.ScopeChannel
		entityID = ctx.Event.ChannelID
		args = parse.RemoveAt(args, i)
	}

	if len(args) == 0 {
		return c.list(ctx)
	}

	def, ok := settings.Find(args[0])
	if !ok {
		return command.Warning(":warning: That setting does not exist."), nil
	}

	if len(args) == 1 {
		return c.show(ctx, def)
	}

	if !ctx.Event.CallerCanManageGuild && !ctx.Elevated {
		return command.Warning(manageGuildWarning), nil
	}

	if strings.EqualFold(args[1], "reset") {
		if err := def.ResetAt(ctx.Settings, scope, entityID); err != nil {
			return command.Result{}, err
		}
		return command.Success(fmt.Sprintf(":white_check_mark: Reset `%s`.", def.Name())), nil
	}

	value := strings.Join(args[1:], " ")
	if err := def.SetFrom(ctx.Settings, scope, entityID, value); err != nil {
		if errors.Is(err, settings.ErrInvalidValue) {
			return command.Warning(":warning: " + err.Error()), nil
		}
		return command.Result{}, err
	}
	return command.Success(fmt.Sprintf(":white_check_mark: Set `%s` to `%s`.", def.Name(), value)), nil
}

func (c *settingsCommand) list(ctx *command.Context) (command.Result, error) {
	var lines []string
	for _, def := range settings.All() {
		value, err := def.EffectiveString(ctx.Settings, ctx.Event.GuildID, ctx.Event.ChannelID)
		if err != nil {
			return command.Result{}, err
		}
		lines = append(lines, fmt.Sprintf("**%s**: `%s`\n%s", def.Name(), value, def.Description()))
	}

	return command.SuccessEmbed(&discordgo.MessageEmbed{
		Title:       "Settings",
		Description: strings.Join(lines, "\n\n"),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Change with %ssettings <setting> <value>", ctx.Prefix),
		},
	}), nil
}

func (c *settingsCommand) show(ctx *command.Context, def settings.Definition) (command.Result, error) {
	value, err := def.EffectiveString(ctx.Settings, ctx.Event.GuildID, ctx.Event.ChannelID)
	if err != nil {
		return command.Result{}, err
	}

	embed := &discordgo.MessageEmbed{
		Title:       def.Name(),
		Description: def.Description(),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Effective Value", Value: "`" + value + "`", Inline: true},
			{Name: "Default", Value: "`" + def.DefaultString() + "`", Inline: true},
		},
	}

	// Show where the effective value comes from.
	for _, src := range []struct {
		label    string
		scope    settings.Scope
		entityID string
	}{
		{"Guild Override", settings.ScopeGuild, ctx.Event.GuildID},
		{"Channel Override", settings.ScopeChannel, ctx.Event.ChannelID},
	} {
		container, err := ctx.Settings.Container(src.scope, src.entityID)
		if err != nil {
			return command.Result{}, err
		}
		raw := "(none)"
		if v, ok := container.Get(def.Name()); ok {
			raw = "`" + v + "`"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: src.label, Value: raw, Inline: true,
		})
	}

	return command.SuccessEmbed(embed), nil
}

type prefixCommand struct{}

func (c *prefixCommand) Info() command.Info {
	return command.Info{
		Name:        "prefix",
		Description: "Shows or changes the command prefix for this server.",
		Usage:       "[new prefix|reset]",
	}
}

func (c *prefixCommand) Run(ctx *command.Context) (command.Result, error) {
	if len(ctx.Args) == 0 {
		return command.Success(fmt.Sprintf("The current prefix is `%s`.", ctx.Prefix)), nil
	}

	if !ctx.Event.FromGuild() {
		return command.Warning("This command is not available in DMs."), nil
	}
	if !ctx.Event.CallerCanManageGuild && !ctx.Elevated {
		return command.Warning(manageGuildWarning), nil
	}

	if strings.EqualFold(ctx.Args[0], "reset") {
		if err := settings.Prefix.Reset(ctx.Settings, settings.ScopeGuild, ctx.Event.GuildID); err != nil {
			return command.Result{}, err
		}
		return command.Success(fmt.Sprintf(":white_check_mark: Prefix reset to `%s`.", settings.Prefix.Default())), nil
	}

	if err := settings.Prefix.Set(ctx.Settings, settings.ScopeGuild, ctx.Event.GuildID, ctx.Args[0]); err != nil {
		if errors.Is(err, settings.ErrInvalidValue) {
			return command.Warning(":warning: " + err.Error()), nil
		}
		return command.Result{}, err
	}
	return command.Success(fmt.Sprintf(":white_check_mark: Prefix changed to `%s`.", ctx.Args[0])), nil
}
