package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/parse"
	"github.com/ethaan/craftbot/pkg/render"
)

// resolveMemberArg maps the member lookup error taxonomy onto user-facing
// warnings. A nil result with a nil warning means a real failure.
func resolveMemberArg(ctx *command.Context, token string) (*parse.Member, *command.Result, error) {
	// An explicit mention anywhere in the message wins over token parsing,
	// so "roles hey @user" still resolves.
	if len(ctx.Event.Mentions) > 0 {
		member, err := ctx.Members.MemberByID(ctx.Event.Mentions[0])
		switch {
		case err == nil:
			return member, nil, nil
		case errors.Is(err, parse.ErrMemberNotFound):
			r := command.Warning(":warning: That user does not exist.")
			return nil, &r, nil
		default:
			return nil, nil, err
		}
	}

	member, err := parse.ResolveMember(ctx.Members, token)
	switch {
	case err == nil:
		return member, nil, nil
	case errors.Is(err, parse.ErrInvalidMemberFormat):
		r := command.Warning(":warning: Not a valid user format. Use `name#1234`, a mention, or a valid ID.")
		return nil, &r, nil
	case errors.Is(err, parse.ErrMemberNotFound):
		r := command.Warning(":warning: That user does not exist.")
		return nil, &r, nil
	default:
		return nil, nil, err
	}
}

type rolesCommand struct{}

func (c *rolesCommand) Info() command.Info {
	return command.Info{
		Name:        "roles",
		Description: "Lists the roles of a guild member.",
		Usage:       "<user|id>",
	}
}

func (c *rolesCommand) Run(ctx *command.Context) (command.Result, error) {
	if !ctx.Event.FromGuild() {
		return command.Warning("This command is not available in DMs."), nil
	}
	if len(ctx.Args) == 0 {
		return command.Warning(":warning: You must specify a user!"), nil
	}

	member, warning, err := resolveMemberArg(ctx, ctx.Args[0])
	if err != nil {
		return command.Result{}, err
	}
	if warning != nil {
		return *warning, nil
	}

	if len(member.RoleMentions) == 0 {
		return command.Success(fmt.Sprintf("**%s** has no roles.", member.Tag)), nil
	}

	lines := render.TruncateLines(member.RoleMentions)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Roles for %s", member.Tag),
		Color: member.Color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d roles", len(member.RoleMentions)),
		},
	}
	if embed.Color == 0 {
		embed.Color = embedColor
	}

	// Short lists go into the description; long ones get split across
	// fields that each stay under the per-field cap.
	if render.FitsDescription(lines) {
		embed.Description = strings.Join(lines, "\n")
	} else {
		for i, chunk := range render.SplitLinesByLength(lines, render.FieldLimit) {
			name := "Roles"
			if i > 0 {
				name = "Roles (cont.)"
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  name,
				Value: chunk,
			})
		}
	}

	return command.SuccessEmbed(embed), nil
}
