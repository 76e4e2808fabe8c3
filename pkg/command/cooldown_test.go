package command

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCooldownAcquireScenario(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)
	const cd = 2000 * time.Millisecond

	// t=0: free, claims.
	if rem := tracker.Acquire("uuid", "caller", cd); rem != 0 {
		t.Fatalf("t=0: expected no cooldown, got %v", rem)
	}

	// t=500: on cooldown with 1500ms left.
	clock.Advance(500 * time.Millisecond)
	if rem := tracker.Acquire("uuid", "caller", cd); rem != 1500*time.Millisecond {
		t.Fatalf("t=500: expected 1500ms remaining, got %v", rem)
	}

	// The rejected attempt must not have refreshed the entry.
	clock.Advance(1600 * time.Millisecond)
	if rem := tracker.Acquire("uuid", "caller", cd); rem != 0 {
		t.Fatalf("t=2100: expected cooldown expired, got %v", rem)
	}
}

func TestCooldownIsPerCallerAndPerCommand(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)
	const cd = 2 * time.Second

	tracker.Acquire("uuid", "alice", cd)

	if rem := tracker.Acquire("uuid", "bob", cd); rem != 0 {
		t.Errorf("bob blocked by alice's cooldown: %v", rem)
	}
	if rem := tracker.Acquire("body", "alice", cd); rem != 0 {
		t.Errorf("body blocked by uuid cooldown: %v", rem)
	}
}

func TestCooldownNonPositiveDurationIsNoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)

	if rem := tracker.Acquire("ping", "caller", 0); rem != 0 {
		t.Fatalf("expected no cooldown, got %v", rem)
	}
	if rem := tracker.Acquire("ping", "caller", 0); rem != 0 {
		t.Fatalf("zero cooldown must never claim, got %v", rem)
	}

	tracker.Refresh("ping", "caller", -time.Second)
	if rem := tracker.Remaining("ping", "caller"); rem > 0 {
		t.Fatalf("negative refresh created an entry: %v", rem)
	}
}

func TestCooldownRelease(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)

	tracker.Acquire("uuid", "caller", time.Second)
	tracker.Release("uuid", "caller")
	if rem := tracker.Acquire("uuid", "caller", time.Second); rem != 0 {
		t.Fatalf("expected released claim to be free, got %v", rem)
	}
}

func TestCooldownAcquireIsAtomic(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)

	const workers = 32
	var wg sync.WaitGroup
	acquired := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rem := tracker.Acquire("uuid", "caller", time.Minute); rem == 0 {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful acquire, got %d", count)
	}
}

func TestCooldownSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tracker := NewCooldownTracker(clock)

	tracker.Acquire("uuid", "alice", time.Second)
	tracker.Acquire("uuid", "bob", time.Minute)

	clock.Advance(2 * time.Second)
	if removed := tracker.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept entry, got %d", removed)
	}

	// Bob is still cooling down; sweeping changed nothing observable.
	if rem := tracker.Remaining("uuid", "bob"); rem <= 0 {
		t.Error("unexpired entry was swept")
	}
	if rem := tracker.Remaining("uuid", "alice"); rem > 0 {
		t.Error("swept entry still reports remaining time")
	}
}
