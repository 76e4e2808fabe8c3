package discord

import (
	"fmt"
	"sort"

	"github.com/ethaan/craftbot/pkg/ascii"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/database"
	"github.com/ethaan/craftbot/pkg/settings"
)

type debugCommand struct {
	bot *Bot
}

func (c *debugCommand) Info() command.Info {
	return command.Info{
		Name:        "debug",
		Description: "Shows internal bot state.",
		Usage:       "[usage|settings]",
		Hidden:      true,
		Elevated:    true,
	}
}

func (c *debugCommand) Run(ctx *command.Context) (command.Result, error) {
	mode := "usage"
	if len(ctx.Args) > 0 {
		mode = ctx.Args[0]
	}

	switch mode {
	case "usage":
		return c.usage()
	case "settings":
		return c.settingsDump(ctx)
	}
	return command.Warning(":warning: Unknown debug mode. Use `usage` or `settings`."), nil
}

// settingsDump shows the effective table plus the raw stored values of both
// containers, so operators can see which scope a value comes from.
func (c *debugCommand) settingsDump(ctx *command.Context) (command.Result, error) {
	out := "```\n" + ascii.BuildSettingsTable(ctx.Settings, ctx.Event.GuildID, ctx.Event.ChannelID) + "```"

	for _, src := range []struct {
		label    string
		scope    settings.Scope
		entityID string
	}{
		{"guild", settings.ScopeGuild, ctx.Event.GuildID},
		{"channel", settings.ScopeChannel, ctx.Event.ChannelID},
	} {
		if src.entityID == "" {
			continue
		}
		container, err := ctx.Settings.Container(src.scope, src.entityID)
		if err != nil {
			return command.Result{}, err
		}
		out += fmt.Sprintf("\nRaw %s container (%s): `%v`", src.label, src.entityID, container.Raw())
	}

	return command.Success(out), nil
}

// usage merges the persisted counters with the in-memory ones that have not
// been flushed yet.
func (c *debugCommand) usage() (command.Result, error) {
	rows, err := c.bot.usageRepo.All()
	if err != nil {
		return command.Result{}, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Command] = row.Uses
	}
	for name, uses := range c.bot.dispatcher.UsageSnapshot() {
		totals[name] += uses
	}

	merged := make([]database.CommandUsage, 0, len(totals))
	for name, uses := range totals {
		merged = append(merged, database.CommandUsage{Command: name, Uses: uses})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Uses > merged[j].Uses
	})

	return command.Success("```\n" + ascii.BuildUsageTable(merged) + "```"), nil
}
