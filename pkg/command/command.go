package command

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/parse"
	"github.com/ethaan/craftbot/pkg/settings"
)

// Info is the immutable metadata for one command, built once at startup.
type Info struct {
	Name        string
	Description string
	Usage       string
	Aliases     []string
	// Hidden commands are skipped by the help menu.
	Hidden bool
	// Elevated commands are silently ignored for non-elevated callers.
	Elevated bool
	// Typing sends a typing indicator while the handler runs.
	Typing bool
	// Cooldown is the minimum interval between invocations per caller.
	// Zero or negative means no cooldown. Config overrides win over this.
	Cooldown time.Duration
	// CooldownOnWarning keeps the cooldown claimed when the handler returns
	// a WARNING. Commands that spend an external call before warning set it.
	CooldownOnWarning bool
}

// Command is one registered handler.
type Command interface {
	Info() Info
	// Run executes the command. Expected conditions (bad input, not found)
	// are classified into the Result; a non-nil error is the unexpected
	// path and is logged and converted to a generic ERROR by the dispatcher.
	Run(ctx *Context) (Result, error)
}

// Event is one inbound message, already detached from the transport.
type Event struct {
	Raw       string
	AuthorID  string
	AuthorTag string
	ChannelID string
	GuildID   string
	// Mentions holds mentioned user ids in message order.
	Mentions []string
	// CallerCanManageGuild reflects the Manage Server permission bit.
	CallerCanManageGuild bool
}

func (e Event) FromGuild() bool {
	return e.GuildID != ""
}

// Context carries everything a handler needs for one invocation.
type Context struct {
	Ctx   context.Context
	Event Event
	Args  []string
	// Prefix is the effective prefix the message was invoked with.
	Prefix   string
	Settings *settings.Cache
	// Members resolves guild members; nil outside guild context.
	Members parse.MemberSource
	// Elevated is whether the caller is on the elevated allow-list.
	Elevated bool
}

// Outcome classifies a command result.
// SUCCESS - message is sent permanently.
// WARNING - message is sent temporarily; the command rejected the input.
// ERROR - message is sent temporarily and the condition is logged.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeWarning
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeWarning:
		return "Warning"
	case OutcomeError:
		return "Error"
	}
	return "Unknown"
}

const (
	warningDeleteAfter = 10 * time.Second
	errorDeleteAfter   = 15 * time.Second
)

// Result is the classified outcome of one invocation plus its reply payload.
type Result struct {
	Outcome Outcome
	Content string
	Embed   *discordgo.MessageEmbed
	// DeleteAfter removes the reply after the duration; zero keeps it.
	DeleteAfter time.Duration
}

func Success(content string) Result {
	return Result{Outcome: OutcomeSuccess, Content: content}
}

func SuccessEmbed(embed *discordgo.MessageEmbed) Result {
	return Result{Outcome: OutcomeSuccess, Embed: embed}
}

func Warning(content string) Result {
	return Result{Outcome: OutcomeWarning, Content: content, DeleteAfter: warningDeleteAfter}
}

func Error(content string) Result {
	return Result{Outcome: OutcomeError, Content: content, DeleteAfter: errorDeleteAfter}
}
