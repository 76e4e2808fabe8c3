package discord

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/mojang"
	"github.com/ethaan/craftbot/pkg/parse"
)

var usernamePattern = regexp.MustCompile(`^[0-9A-Za-z_]{1,16}$`)

// mojangFailure classifies lookup failures. Not-found and unavailable are
// expected conditions with their own reply; anything else escalates.
func mojangFailure(err error) (command.Result, error) {
	switch {
	case errors.Is(err, mojang.ErrNotFound):
		return command.Warning(":warning: That username does not exist."), nil
	case errors.Is(err, mojang.ErrUnavailable):
		return command.Error(":x: The Mojang API could not be reached. Try again later."), nil
	}
	return command.Result{}, err
}

// resolveUUID turns a username or UUID token into an undashed UUID, hitting
// the profile endpoint only when needed. Date args apply to username lookups
// and are ignored for a literal UUID.
func resolveUUID(ctx *command.Context, client *mojang.Client, token string, dateArgs []string) (string, *command.Result, error) {
	if mojang.IsUUID(token) {
		return strings.ReplaceAll(token, "-", ""), nil, nil
	}
	if !usernamePattern.MatchString(token) {
		r := command.Warning(":warning: That username is invalid.")
		return "", &r, nil
	}

	var profile *mojang.Profile
	var err error
	if len(dateArgs) > 0 {
		var ts int64
		ts, err = parse.Timestamp(dateArgs)
		switch {
		case errors.Is(err, parse.ErrInvalidDate):
			r := command.Warning(":warning: That date could not be parsed. " + parse.DateHelp)
			return "", &r, nil
		case errors.Is(err, parse.ErrDateOutOfRange):
			r := command.Warning(":warning: That date is out of range. " + parse.DateHelp)
			return "", &r, nil
		}
		profile, err = client.UUIDForNameAt(ctx.Ctx, token, ts)
	} else {
		profile, err = client.UUIDForName(ctx.Ctx, token)
	}
	if err != nil {
		r, err := mojangFailure(err)
		if err != nil {
			return "", nil, err
		}
		return "", &r, nil
	}
	return profile.UUID, nil, nil
}

type uuidCommand struct {
	mojang *mojang.Client
}

func (c *uuidCommand) Info() command.Info {
	return command.Info{
		Name:        "uuid",
		Description: "Gets the UUID of a player, optionally at a past date.",
		Usage:       "<username> [date]",
		Aliases:     []string{"u"},
		Typing:      true,
		Cooldown:    2000 * time.Millisecond,
		// The Mojang call is already spent by the time a not-found
		// warning comes back.
		CooldownOnWarning: true,
	}
}

func (c *uuidCommand) Run(ctx *command.Context) (command.Result, error) {
	if len(ctx.Args) == 0 {
		return command.Warning(":warning: You must specify a username!"), nil
	}

	name := ctx.Args[0]
	if !usernamePattern.MatchString(name) {
		return command.Warning(":warning: That username is invalid."), nil
	}

	var profile *mojang.Profile
	var err error
	if len(ctx.Args) > 1 {
		ts, derr := parse.Timestamp(ctx.Args[1:])
		switch {
		case errors.Is(derr, parse.ErrInvalidDate):
			return command.Warning(":warning: That date could not be parsed. " + parse.DateHelp), nil
		case errors.Is(derr, parse.ErrDateOutOfRange):
			return command.Warning(":warning: That date is out of range. " + parse.DateHelp), nil
		}
		profile, err = c.mojang.UUIDForNameAt(ctx.Ctx, name, ts)
	} else {
		profile, err = c.mojang.UUIDForName(ctx.Ctx, name)
	}
	if err != nil {
		return mojangFailure(err)
	}

	return command.Success(fmt.Sprintf("The UUID of `%s` is `%s`.", profile.Name, profile.UUID)), nil
}
