package discord

import "github.com/ethaan/craftbot/pkg/command"

type pingCommand struct{}

func (c *pingCommand) Info() command.Info {
	return command.Info{
		Name:        "ping",
		Description: "Pings the bot.",
	}
}

func (c *pingCommand) Run(ctx *command.Context) (command.Result, error) {
	return command.Success(":ping_pong: Pong!"), nil
}
