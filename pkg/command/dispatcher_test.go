package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethaan/craftbot/pkg/settings"
	"github.com/jonboulle/clockwork"
)

type memStore struct {
	values map[string]string
}

func (m *memStore) key(scope, entityID, name string) string {
	return scope + "/" + entityID + "/" + name
}

func (m *memStore) Read(scope, entityID, name string) (string, bool, error) {
	v, ok := m.values[m.key(scope, entityID, name)]
	return v, ok, nil
}

func (m *memStore) ReadAll(scope, entityID string) (map[string]string, error) {
	prefix := scope + "/" + entityID + "/"
	out := make(map[string]string)
	for k, v := range m.values {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out, nil
}

func (m *memStore) Write(scope, entityID, name, value string) error {
	m.values[m.key(scope, entityID, name)] = value
	return nil
}

func (m *memStore) Delete(scope, entityID, name string) error {
	delete(m.values, m.key(scope, entityID, name))
	return nil
}

type dispatcherFixture struct {
	dispatcher *Dispatcher
	clock      *clockwork.FakeClock
	store      *memStore
	cache      *settings.Cache
}

func newFixture(t *testing.T, cmds ...Command) *dispatcherFixture {
	t.Helper()

	registry := NewRegistry()
	for _, cmd := range cmds {
		if err := registry.Register(cmd); err != nil {
			t.Fatalf("register %s: %v", cmd.Info().Name, err)
		}
	}

	clock := clockwork.NewFakeClock()
	store := &memStore{values: make(map[string]string)}
	cache := settings.NewCache(store, 10*time.Minute, clock)

	d := NewDispatcher(Options{
		Registry:        registry,
		Cooldowns:       NewCooldownTracker(clock),
		Settings:        cache,
		ElevatedUserIDs: []string{"admin1"},
		Timeout:         time.Second,
	})

	return &dispatcherFixture{dispatcher: d, clock: clock, store: store, cache: cache}
}

func guildEvent(raw string) Event {
	return Event{
		Raw:       raw,
		AuthorID:  "user1",
		AuthorTag: "user#0001",
		ChannelID: "chan1",
		GuildID:   "guild1",
	}
}

func TestDispatchSilentPaths(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)

	cases := map[string]string{
		"no prefix":       "ping",
		"unknown command": "&nosuchcommand",
		"prefix only":     "&",
		"empty":           "",
	}
	for label, raw := range cases {
		if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent(raw)); handled {
			t.Errorf("%s: expected silent no-op for %q", label, raw)
		}
	}
	if cmd.runs != 0 {
		t.Errorf("handler ran %d times on silent paths", cmd.runs)
	}
}

func TestDispatchRunsHandler(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)

	result, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&ping"))
	if !handled {
		t.Fatal("expected handled")
	}
	if result.Outcome != OutcomeSuccess || result.Content != "Pong!" {
		t.Errorf("unexpected result: %+v", result)
	}
	if cmd.runs != 1 {
		t.Errorf("expected 1 run, got %d", cmd.runs)
	}
}

func TestDispatchCaseInsensitiveTokenAndAlias(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "user", Aliases: []string{"whois"}}, result: Success("ok")}
	f := newFixture(t, cmd)

	for _, raw := range []string{"&USER someone", "&WhoIs someone"} {
		if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent(raw)); !handled {
			t.Errorf("expected %q to dispatch", raw)
		}
	}
	if cmd.runs != 2 {
		t.Errorf("expected 2 runs, got %d", cmd.runs)
	}
}

func TestDispatchElevatedSilentNoop(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "debug", Elevated: true}, result: Success("ok")}
	f := newFixture(t, cmd)

	// Non-elevated caller: no Result at all, no handler run.
	if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&debug")); handled {
		t.Error("expected silent no-op for non-elevated caller")
	}
	if cmd.runs != 0 {
		t.Error("handler ran for non-elevated caller")
	}

	// Elevated caller goes through.
	ev := guildEvent("&debug")
	ev.AuthorID = "admin1"
	if _, handled := f.dispatcher.Dispatch(context.Background(), ev); !handled {
		t.Error("expected elevated caller to dispatch")
	}
	if cmd.runs != 1 {
		t.Error("handler did not run for elevated caller")
	}
}

func TestDispatchCooldownScenario(t *testing.T) {
	cmd := &stubCommand{
		info:   Info{Name: "uuid", Cooldown: 2000 * time.Millisecond},
		result: Success("ok"),
	}
	f := newFixture(t, cmd)

	if result, _ := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x")); result.Outcome != OutcomeSuccess {
		t.Fatalf("t=0: expected SUCCESS, got %v", result.Outcome)
	}

	f.clock.Advance(500 * time.Millisecond)
	result, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	if !handled || result.Outcome != OutcomeWarning {
		t.Fatalf("t=500: expected WARNING, got %+v", result)
	}
	if !strings.Contains(result.Content, "1.5") {
		t.Errorf("t=500: expected remaining wait in message, got %q", result.Content)
	}
	if cmd.runs != 1 {
		t.Errorf("handler ran during cooldown (%d runs)", cmd.runs)
	}

	f.clock.Advance(1600 * time.Millisecond)
	if result, _ := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x")); result.Outcome != OutcomeSuccess {
		t.Fatalf("t=2100: expected SUCCESS, got %v", result.Outcome)
	}

	// Only invocations that reached the handler count as uses; the
	// cooldown rejection at t=500 does not.
	if usage := f.dispatcher.TakeUsage(); usage["uuid"] != 2 {
		t.Errorf("expected 2 uses, got %d", usage["uuid"])
	}
}

func TestDispatchCooldownOverrideBeatsDescriptor(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "uuid", Cooldown: time.Hour}, result: Success("ok")}
	f := newFixture(t, cmd)
	f.dispatcher.overrides = map[string]time.Duration{"uuid": 100 * time.Millisecond}

	f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	f.clock.Advance(200 * time.Millisecond)
	result, _ := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("override not applied: %+v", result)
	}
}

func TestDispatchWarningCooldownPolicy(t *testing.T) {
	burn := &stubCommand{
		info:   Info{Name: "uuid", Cooldown: 2 * time.Second, CooldownOnWarning: true},
		result: Warning("bad input"),
	}
	free := &stubCommand{
		info:   Info{Name: "roles", Cooldown: 2 * time.Second},
		result: Warning("bad input"),
	}
	f := newFixture(t, burn, free)

	// CooldownOnWarning=true: the warning keeps the claim.
	f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	f.clock.Advance(time.Second)
	result, _ := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	if !strings.Contains(result.Content, "wait") {
		t.Errorf("expected cooldown warning, got %q", result.Content)
	}

	// CooldownOnWarning=false: the claim is released.
	f.dispatcher.Dispatch(context.Background(), guildEvent("&roles"))
	result, _ = f.dispatcher.Dispatch(context.Background(), guildEvent("&roles"))
	if result.Content != "bad input" {
		t.Errorf("expected handler warning, got %q", result.Content)
	}
	if free.runs != 2 {
		t.Errorf("expected 2 runs, got %d", free.runs)
	}
}

func TestDispatchHandlerErrorBecomesGenericError(t *testing.T) {
	cmd := &stubCommand{
		info: Info{Name: "uuid", Cooldown: time.Minute},
		err:  errors.New("connection reset"),
	}
	f := newFixture(t, cmd)

	result, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x"))
	if !handled || result.Outcome != OutcomeError {
		t.Fatalf("expected generic ERROR, got %+v", result)
	}
	if strings.Contains(result.Content, "connection reset") {
		t.Error("internal error leaked to the user message")
	}

	// ERROR never burns the cooldown.
	cmd.err = nil
	cmd.result = Success("ok")
	if result, _ := f.dispatcher.Dispatch(context.Background(), guildEvent("&uuid x")); result.Outcome != OutcomeSuccess {
		t.Errorf("cooldown kept after error: %+v", result)
	}
}

type panicCommand struct{ info Info }

func (p *panicCommand) Info() Info { return p.info }
func (p *panicCommand) Run(ctx *Context) (Result, error) {
	panic("boom")
}

func TestDispatchHandlerPanicIsContained(t *testing.T) {
	f := newFixture(t, &panicCommand{info: Info{Name: "crash"}})

	result, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&crash"))
	if !handled || result.Outcome != OutcomeError {
		t.Fatalf("expected contained ERROR, got %+v", result)
	}
}

func TestDispatchPerGuildPrefix(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)

	if err := settings.Prefix.Set(f.cache, settings.ScopeGuild, "guild1", "!"); err != nil {
		t.Fatalf("set prefix: %v", err)
	}

	if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("&ping")); handled {
		t.Error("default prefix should no longer match")
	}
	if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("!ping")); !handled {
		t.Error("guild prefix did not match")
	}

	// DMs resolve to the default prefix regardless of guild overrides.
	dm := Event{Raw: "&ping", AuthorID: "user1", ChannelID: "dm1"}
	if _, handled := f.dispatcher.Dispatch(context.Background(), dm); !handled {
		t.Error("default prefix should work in DMs")
	}
}

func TestDispatchMentionPrefix(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)
	f.dispatcher.SetSelfID("botid")

	for _, raw := range []string{"<@botid> ping", "<@!botid> ping"} {
		if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent(raw)); !handled {
			t.Errorf("mention prefix %q did not dispatch", raw)
		}
	}
}

func TestSetSelfIDConcurrentWithDispatch(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)

	// The ready handler can race incoming messages; both sides must be
	// safe under the race detector.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			f.dispatcher.SetSelfID("botid")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			f.dispatcher.Dispatch(context.Background(), guildEvent("<@botid> ping"))
		}
	}()
	wg.Wait()

	if _, handled := f.dispatcher.Dispatch(context.Background(), guildEvent("<@botid> ping")); !handled {
		t.Error("mention prefix did not dispatch after SetSelfID")
	}
}

func TestDispatchUsageCounting(t *testing.T) {
	cmd := &stubCommand{info: Info{Name: "ping"}, result: Success("Pong!")}
	f := newFixture(t, cmd)

	f.dispatcher.Dispatch(context.Background(), guildEvent("&ping"))
	f.dispatcher.Dispatch(context.Background(), guildEvent("&ping"))
	f.dispatcher.Dispatch(context.Background(), guildEvent("no prefix"))

	usage := f.dispatcher.TakeUsage()
	if usage["ping"] != 2 {
		t.Errorf("expected 2 uses, got %d", usage["ping"])
	}
	if len(f.dispatcher.UsageSnapshot()) != 0 {
		t.Error("TakeUsage did not clear the counters")
	}
}
