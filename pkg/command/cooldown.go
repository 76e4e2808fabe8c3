package command

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const cooldownShardCount = 64

// CooldownTracker holds per-(command, caller) expiry timestamps. Expiry is
// evaluated lazily on read; entries are only removed by Sweep or Release.
// Shards keep unrelated callers from contending on one lock.
type CooldownTracker struct {
	clock  clockwork.Clock
	shards [cooldownShardCount]cooldownShard
}

type cooldownShard struct {
	mu     sync.Mutex
	expiry map[string]time.Time
}

func NewCooldownTracker(clock clockwork.Clock) *CooldownTracker {
	t := &CooldownTracker{clock: clock}
	for i := range t.shards {
		t.shards[i].expiry = make(map[string]time.Time)
	}
	return t
}

func cooldownKey(command, caller string) string {
	return command + "\x00" + caller
}

func (t *CooldownTracker) shard(key string) *cooldownShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &t.shards[h.Sum32()%cooldownShardCount]
}

// Remaining reports how long until the entry expires; zero or negative
// means no active cooldown.
func (t *CooldownTracker) Remaining(command, caller string) time.Duration {
	key := cooldownKey(command, caller)
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiry[key]
	if !ok {
		return 0
	}
	return exp.Sub(t.clock.Now())
}

// Acquire atomically checks and claims the cooldown. If the caller is still
// cooling down it returns the positive remaining duration and changes
// nothing. Otherwise it claims expiry = now + d (when d > 0) and returns 0.
// The single shard lock makes concurrent same-key invocations serialize
// here, so two callers can never both pass the check.
func (t *CooldownTracker) Acquire(command, caller string, d time.Duration) time.Duration {
	key := cooldownKey(command, caller)
	s := t.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := t.clock.Now()
	if exp, ok := s.expiry[key]; ok {
		if rem := exp.Sub(now); rem > 0 {
			return rem
		}
	}
	if d > 0 {
		s.expiry[key] = now.Add(d)
	}
	return 0
}

// Refresh writes expiry = now + d, overwriting any existing entry.
// A non-positive duration is a no-op: cooldowns are opt-in per command.
func (t *CooldownTracker) Refresh(command, caller string, d time.Duration) {
	if d <= 0 {
		return
	}
	key := cooldownKey(command, caller)
	s := t.shard(key)
	s.mu.Lock()
	s.expiry[key] = t.clock.Now().Add(d)
	s.mu.Unlock()
}

// Release drops a claim made by Acquire, used when the invocation should
// not count against the rate limit (ERROR, or WARNING without the
// cooldown-on-warning policy).
func (t *CooldownTracker) Release(command, caller string) {
	key := cooldownKey(command, caller)
	s := t.shard(key)
	s.mu.Lock()
	delete(s.expiry, key)
	s.mu.Unlock()
}

// Sweep removes expired entries and returns how many went. Expired entries
// are indistinguishable from missing ones, so this only bounds memory.
func (t *CooldownTracker) Sweep() int {
	removed := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		now := t.clock.Now()
		for key, exp := range s.expiry {
			if !exp.After(now) {
				delete(s.expiry, key)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
