package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/mojang"
	"github.com/ethaan/craftbot/pkg/parse"
)

type bodyCommand struct {
	mojang *mojang.Client
}

func (c *bodyCommand) Info() command.Info {
	return command.Info{
		Name:              "body",
		Description:       "Shows a full body render of a player.",
		Usage:             "<username|uuid> [date] [overlay]",
		Aliases:           []string{"render"},
		Typing:            true,
		Cooldown:          2000 * time.Millisecond,
		CooldownOnWarning: true,
	}
}

func (c *bodyCommand) Run(ctx *command.Context) (command.Result, error) {
	args := ctx.Args
	overlay := false
	if i := parse.FlagIndex(args, "overlay"); i >= 0 {
		overlay = true
		args = parse.RemoveAt(args, i)
	}

	if len(args) == 0 {
		return command.Warning(":warning: You must specify a username!"), nil
	}

	uuid, warning, err := resolveUUID(ctx, c.mojang, args[0], args[1:])
	if err != nil {
		return command.Result{}, err
	}
	if warning != nil {
		return *warning, nil
	}

	return command.SuccessEmbed(&discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's body", args[0]),
		Color: embedColor,
		Image: &discordgo.MessageEmbedImage{
			URL: c.mojang.BodyRenderURL(uuid, overlay),
		},
	}), nil
}
