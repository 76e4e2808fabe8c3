package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidValue marks user-supplied values that fail a setting's parser.
var ErrInvalidValue = errors.New("invalid setting value")

// Setting is one typed configuration knob. Resolution is an ordered
// short-circuit: channel container, then guild container, then the compiled
// default.
type Setting[T any] struct {
	name        string
	description string
	def         T
	parse       func(string) (T, error)
	format      func(T) string
}

func (s *Setting[T]) Name() string        { return s.name }
func (s *Setting[T]) Description() string { return s.description }
func (s *Setting[T]) Default() T          { return s.def }

// Get returns the value explicitly stored in a container, if any.
func (s *Setting[T]) Get(c *Container) (T, bool) {
	raw, ok := c.Get(s.name)
	if !ok {
		var zero T
		return zero, false
	}
	v, err := s.parse(raw)
	if err != nil {
		// A stored value that no longer parses is treated as absent.
		var zero T
		return zero, false
	}
	return v, true
}

// Effective resolves the value for an event context. An empty guildID means
// a direct message, which resolves straight to the default.
func (s *Setting[T]) Effective(cache *Cache, guildID, channelID string) (T, error) {
	if guildID == "" {
		return s.def, nil
	}

	channel, err := cache.Container(ScopeChannel, channelID)
	if err != nil {
		return s.def, err
	}
	if v, ok := s.Get(channel); ok {
		return v, nil
	}

	guild, err := cache.Container(ScopeGuild, guildID)
	if err != nil {
		return s.def, err
	}
	if v, ok := s.Get(guild); ok {
		return v, nil
	}

	return s.def, nil
}

// Set validates and persists a value at the given scope.
func (s *Setting[T]) Set(cache *Cache, scope Scope, entityID, raw string) error {
	v, err := s.parse(raw)
	if err != nil {
		return err
	}
	return cache.Set(scope, entityID, s.name, s.format(v))
}

func (s *Setting[T]) Reset(cache *Cache, scope Scope, entityID string) error {
	return cache.Reset(scope, entityID, s.name)
}

// EffectiveString renders the resolved value for display.
func (s *Setting[T]) EffectiveString(cache *Cache, guildID, channelID string) (string, error) {
	v, err := s.Effective(cache, guildID, channelID)
	if err != nil {
		return "", err
	}
	return s.format(v), nil
}

// Definition is the type-erased view used for listing and generic mutation.
type Definition interface {
	Name() string
	Description() string
	DefaultString() string
	EffectiveString(cache *Cache, guildID, channelID string) (string, error)
	SetFrom(cache *Cache, scope Scope, entityID, raw string) error
	ResetAt(cache *Cache, scope Scope, entityID string) error
}

func (s *Setting[T]) DefaultString() string { return s.format(s.def) }

func (s *Setting[T]) SetFrom(cache *Cache, scope Scope, entityID, raw string) error {
	return s.Set(cache, scope, entityID, raw)
}

func (s *Setting[T]) ResetAt(cache *Cache, scope Scope, entityID string) error {
	return s.Reset(cache, scope, entityID)
}

var (
	// Prefix is the command prefix users type before a command name.
	Prefix = &Setting[string]{
		name:        "prefix",
		description: "The prefix used before every command.",
		def:         "&",
		parse:       parsePrefix,
		format:      func(v string) string { return v },
	}

	// UseMenus switches help output to reaction menus when enabled.
	UseMenus = &Setting[bool]{
		name:        "use-menus",
		description: "Whether help output uses reaction menus.",
		def:         false,
		parse:       parseBool,
		format:      strconv.FormatBool,
	}

	// DeleteCommands deletes the invoking message after a successful command.
	DeleteCommands = &Setting[bool]{
		name:        "delete-commands",
		description: "Whether the invoking message is deleted after a successful command.",
		def:         false,
		parse:       parseBool,
		format:      strconv.FormatBool,
	}
)

// ConfigureDefaultPrefix replaces the compiled-in default prefix. Called
// once at startup, before any dispatching.
func ConfigureDefaultPrefix(p string) error {
	v, err := parsePrefix(p)
	if err != nil {
		return err
	}
	Prefix.def = v
	return nil
}

// All lists every defined setting. Every name here is resolvable at guild
// scope, which keeps channel-level overrides with a defined fallback.
func All() []Definition {
	return []Definition{Prefix, UseMenus, DeleteCommands}
}

// Find looks a setting up by name, case-insensitively.
func Find(name string) (Definition, bool) {
	for _, def := range All() {
		if strings.EqualFold(def.Name(), name) {
			return def, true
		}
	}
	return nil, false
}

func parsePrefix(raw string) (string, error) {
	if raw == "" || len(raw) > 8 {
		return "", fmt.Errorf("%w: prefix must be 1-8 characters", ErrInvalidValue)
	}
	if strings.ContainsAny(raw, " \t\n") {
		return "", fmt.Errorf("%w: prefix cannot contain whitespace", ErrInvalidValue)
	}
	return raw, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "on", "enabled", "1":
		return true, nil
	case "false", "no", "off", "disabled", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected true or false, got %q", ErrInvalidValue, raw)
}
