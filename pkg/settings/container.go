package settings

// Scope is the level a setting is stored at.
type Scope string

const (
	ScopeGuild   Scope = "guild"
	ScopeChannel Scope = "channel"
)

// Store is the persistent backing for setting containers. Implemented by
// repositories.SettingRepository; tests use an in-memory fake.
type Store interface {
	Read(scope, entityID, name string) (string, bool, error)
	ReadAll(scope, entityID string) (map[string]string, error)
	Write(scope, entityID, name, value string) error
	Delete(scope, entityID, name string) error
}

// Container is an immutable snapshot of the stored values for one entity at
// one scope. A missing key means "inherit from the next scope up". The cache
// replaces the whole snapshot on mutation, so readers never see a container
// change underneath them.
type Container struct {
	Scope    Scope
	EntityID string
	values   map[string]string
}

func (c *Container) Get(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[name]
	return v, ok
}

// Raw returns a copy of the stored values, for display.
func (c *Container) Raw() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

func (c *Container) with(name, value string) *Container {
	next := make(map[string]string, len(c.values)+1)
	for k, v := range c.values {
		next[k] = v
	}
	next[name] = value
	return &Container{Scope: c.Scope, EntityID: c.EntityID, values: next}
}

func (c *Container) without(name string) *Container {
	next := make(map[string]string, len(c.values))
	for k, v := range c.values {
		if k != name {
			next[k] = v
		}
	}
	return &Container{Scope: c.Scope, EntityID: c.EntityID, values: next}
}
