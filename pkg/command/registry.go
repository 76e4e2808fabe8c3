package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateName is returned when a name or alias collides with an
// existing registry entry. Duplicate registration is a startup bug and is
// fatal in cmd/bot.
var ErrDuplicateName = errors.New("duplicate command name")

// Registry maps names and aliases to commands. Registration happens once at
// startup; lookups afterwards are read-only and need no locking.
type Registry struct {
	names   map[string]Command
	aliases map[string]Command
	ordered []Command
}

func NewRegistry() *Registry {
	return &Registry{
		names:   make(map[string]Command),
		aliases: make(map[string]Command),
	}
}

// Register adds a command. On any collision nothing is mutated.
func (r *Registry) Register(cmd Command) error {
	info := cmd.Info()
	name := strings.ToLower(info.Name)

	if r.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, info.Name)
	}

	lowered := make([]string, 0, len(info.Aliases))
	seen := map[string]bool{name: true}
	for _, alias := range info.Aliases {
		a := strings.ToLower(alias)
		if seen[a] || r.taken(a) {
			return fmt.Errorf("%w: alias %s of %s", ErrDuplicateName, alias, info.Name)
		}
		seen[a] = true
		lowered = append(lowered, a)
	}

	r.names[name] = cmd
	for _, a := range lowered {
		r.aliases[a] = cmd
	}
	r.ordered = append(r.ordered, cmd)
	return nil
}

func (r *Registry) taken(token string) bool {
	if _, ok := r.names[token]; ok {
		return true
	}
	_, ok := r.aliases[token]
	return ok
}

// Lookup resolves a typed token to a command, case-insensitively. Primary
// names win over aliases.
func (r *Registry) Lookup(token string) (Command, bool) {
	token = strings.ToLower(token)
	if cmd, ok := r.names[token]; ok {
		return cmd, true
	}
	cmd, ok := r.aliases[token]
	return cmd, ok
}

// All returns commands in registration order, for help menus.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.ordered))
	copy(out, r.ordered)
	return out
}
