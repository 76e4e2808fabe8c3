package command

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethaan/craftbot/pkg/logger"
	"github.com/ethaan/craftbot/pkg/parse"
	"github.com/ethaan/craftbot/pkg/settings"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MemberProvider hands the dispatcher a member source for a guild, or nil
// when the transport has no guild context.
type MemberProvider func(guildID string) parse.MemberSource

// Options is the dependency set for a Dispatcher, wired at the composition
// root in cmd/bot.
type Options struct {
	Registry  *Registry
	Cooldowns *CooldownTracker
	Settings  *settings.Cache
	Members   MemberProvider
	// SelfID enables the @mention prefix form.
	SelfID string
	// ElevatedUserIDs is the operator allow-list.
	ElevatedUserIDs []string
	// DefaultCooldown applies to commands without their own cooldown.
	DefaultCooldown time.Duration
	// CooldownOverrides beat the descriptor's compiled-in cooldown.
	CooldownOverrides map[string]time.Duration
	// Timeout bounds each handler invocation.
	Timeout time.Duration
	// Typing is called before a handler with Info.Typing runs, so the
	// transport can show a typing indicator. Optional.
	Typing func(channelID string)
}

// Dispatcher turns one inbound event into at most one classified Result.
// Events dispatch independently; the only shared state is the cooldown
// tracker, the settings cache and the usage counters, each with their own
// fine-grained locking.
type Dispatcher struct {
	registry  *Registry
	cooldowns *CooldownTracker
	settings  *settings.Cache
	members   MemberProvider
	// selfID holds a string; written from the transport's ready handler
	// while message events are already flowing, so access is atomic.
	selfID   atomic.Value
	elevated map[string]bool
	defaultCD time.Duration
	overrides map[string]time.Duration
	timeout   time.Duration
	typing    func(channelID string)

	usageMu sync.Mutex
	usage   map[string]int64
}

func NewDispatcher(opts Options) *Dispatcher {
	elevated := make(map[string]bool, len(opts.ElevatedUserIDs))
	for _, id := range opts.ElevatedUserIDs {
		elevated[id] = true
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	d := &Dispatcher{
		registry:  opts.Registry,
		cooldowns: opts.Cooldowns,
		settings:  opts.Settings,
		members:   opts.Members,
		elevated:  elevated,
		defaultCD: opts.DefaultCooldown,
		overrides: opts.CooldownOverrides,
		timeout:   timeout,
		typing:    opts.Typing,
		usage:     make(map[string]int64),
	}
	d.selfID.Store(opts.SelfID)
	return d
}

// SetSelfID enables the @mention prefix form once the transport knows its
// own user id, typically from the ready handler.
func (d *Dispatcher) SetSelfID(id string) {
	d.selfID.Store(id)
}

// Dispatch runs one event through the pipeline. The second return is false
// for the silent no-op paths: missing prefix, unknown command, and elevated
// commands invoked by non-elevated callers.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Result, bool) {
	prefix := d.effectivePrefix(ev)

	rest, ok := d.stripPrefix(ev.Raw, prefix)
	if !ok {
		return Result{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Result{}, false
	}
	token := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := d.registry.Lookup(token)
	if !ok {
		// Unknown commands stay silent to avoid noise from unrelated
		// prefix collisions.
		return Result{}, false
	}
	info := cmd.Info()

	callerElevated := d.elevated[ev.AuthorID]
	if info.Elevated && !callerElevated {
		// Do not reveal the command's existence.
		logger.Debug("Ignoring elevated command %s from %s", info.Name, ev.AuthorID)
		return Result{}, false
	}

	cooldown := d.cooldownFor(info)
	if rem := d.cooldowns.Acquire(info.Name, ev.AuthorID, cooldown); rem > 0 {
		return Warning(fmt.Sprintf(":warning: Please wait %.1f more seconds.", rem.Seconds())), true
	}

	d.countUse(info.Name)
	logger.Command(info.Name, "%s (%s) in %s", ev.AuthorTag, ev.AuthorID, ev.ChannelID)

	if info.Typing && d.typing != nil {
		d.typing(ev.ChannelID)
	}

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var members parse.MemberSource
	if ev.FromGuild() && d.members != nil {
		members = d.members(ev.GuildID)
	}

	cmdCtx := &Context{
		Ctx:      runCtx,
		Event:    ev,
		Args:     args,
		Prefix:   prefix,
		Settings: d.settings,
		Members:  members,
		Elevated: callerElevated,
	}

	result, err := runGuarded(cmd, cmdCtx)
	if err != nil {
		id := invocationID()
		logger.Error("[%s] Command %s failed for %s (args: %q): %v",
			id, info.Name, ev.AuthorID, args, err)
		d.cooldowns.Release(info.Name, ev.AuthorID)
		return Error(":x: An unexpected error occurred. Try again later."), true
	}

	switch result.Outcome {
	case OutcomeError:
		logger.Error("Command %s returned an error for %s (args: %q): %s",
			info.Name, ev.AuthorID, args, result.Content)
		d.cooldowns.Release(info.Name, ev.AuthorID)
	case OutcomeWarning:
		if !info.CooldownOnWarning {
			d.cooldowns.Release(info.Name, ev.AuthorID)
		}
	}

	return result, true
}

// runGuarded contains handler panics; nothing unclassified may escape to
// the transport layer.
func runGuarded(cmd Command, ctx *Context) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in command handler: %v", r)
		}
	}()
	return cmd.Run(ctx)
}

func (d *Dispatcher) effectivePrefix(ev Event) string {
	prefix, err := settings.Prefix.Effective(d.settings, ev.GuildID, ev.ChannelID)
	if err != nil {
		// Fall back to the default rather than dropping the event.
		logger.Error("Failed to resolve prefix for guild %s: %v", ev.GuildID, err)
		return settings.Prefix.Default()
	}
	return prefix
}

// stripPrefix accepts the configured prefix or a leading bot mention.
func (d *Dispatcher) stripPrefix(raw, prefix string) (string, bool) {
	if strings.HasPrefix(raw, prefix) {
		return raw[len(prefix):], true
	}
	if selfID, _ := d.selfID.Load().(string); selfID != "" {
		for _, mention := range []string{"<@" + selfID + ">", "<@!" + selfID + ">"} {
			if strings.HasPrefix(raw, mention) {
				return strings.TrimLeft(raw[len(mention):], " "), true
			}
		}
	}
	return "", false
}

// cooldownFor checks the config override before the descriptor default.
func (d *Dispatcher) cooldownFor(info Info) time.Duration {
	if override, ok := d.overrides[strings.ToLower(info.Name)]; ok {
		return override
	}
	if info.Cooldown != 0 {
		return info.Cooldown
	}
	return d.defaultCD
}

func (d *Dispatcher) countUse(name string) {
	d.usageMu.Lock()
	d.usage[name]++
	d.usageMu.Unlock()
}

// TakeUsage returns and clears the accumulated in-memory usage counts.
func (d *Dispatcher) TakeUsage() map[string]int64 {
	d.usageMu.Lock()
	defer d.usageMu.Unlock()
	taken := d.usage
	d.usage = make(map[string]int64)
	return taken
}

// UsageSnapshot returns a copy of the counts without clearing them.
func (d *Dispatcher) UsageSnapshot() map[string]int64 {
	d.usageMu.Lock()
	defer d.usageMu.Unlock()
	out := make(map[string]int64, len(d.usage))
	for k, v := range d.usage {
		out[k] = v
	}
	return out
}

func invocationID() string {
	id, err := gonanoid.New(8)
	if err != nil {
		return "--------"
	}
	return id
}
