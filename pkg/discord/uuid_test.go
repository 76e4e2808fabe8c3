package discord

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/mojang"
)

func mojangFixture(t *testing.T, handler http.HandlerFunc) *mojang.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return mojang.NewClient(server.URL, "https://crafatar.example")
}

func TestUUIDRequiresUsername(t *testing.T) {
	cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})}

	result, err := cmd.Run(testContext(nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != command.OutcomeWarning || !strings.Contains(result.Content, "username") {
		t.Errorf("expected username warning, got %+v", result)
	}
}

func TestUUIDRejectsInvalidUsername(t *testing.T) {
	cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})}

	result, err := cmd.Run(testContext([]string{"not a name!!"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != command.OutcomeWarning {
		t.Errorf("expected warning, got %+v", result)
	}
}

func TestUUIDSuccess(t *testing.T) {
	cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
	})}

	result, err := cmd.Run(testContext([]string{"Notch"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != command.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if !strings.Contains(result.Content, "069a79f444e94726a5befca90e38aaf5") {
		t.Errorf("expected uuid in reply, got %q", result.Content)
	}
}

func TestUUIDWithDatePassesAtParam(t *testing.T) {
	var gotAt string
	cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotAt = r.URL.Query().Get("at")
		w.Write([]byte(`{"id":"abc","name":"Notch"}`))
	})}

	result, err := cmd.Run(testContext([]string{"Notch", "1230768000"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != command.OutcomeSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if gotAt != "1230768000" {
		t.Errorf("expected at=1230768000, got %q", gotAt)
	}
}

func TestUUIDInvalidDate(t *testing.T) {
	cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})}

	result, err := cmd.Run(testContext([]string{"Notch", "not-a-date"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != command.OutcomeWarning || !strings.Contains(result.Content, "date") {
		t.Errorf("expected date warning, got %+v", result)
	}
}

func TestUUIDNotFoundVsUnavailable(t *testing.T) {
	cases := []struct {
		status  int
		outcome command.Outcome
	}{
		{http.StatusNoContent, command.OutcomeWarning},
		{http.StatusInternalServerError, command.OutcomeError},
	}

	for _, c := range cases {
		cmd := &uuidCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		})}

		result, err := cmd.Run(testContext([]string{"ghost"}, nil))
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", c.status, err)
		}
		if result.Outcome != c.outcome {
			t.Errorf("status %d: expected %v, got %+v", c.status, c.outcome, result)
		}
	}
}

func TestBodyOverlayFlag(t *testing.T) {
	cmd := &bodyCommand{mojang: mojangFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a uuid argument")
	})}

	result, err := cmd.Run(testContext([]string{"overlay", "069a79f444e94726a5befca90e38aaf5"}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embed == nil || result.Embed.Image == nil {
		t.Fatalf("expected image embed, got %+v", result)
	}
	want := "https://crafatar.example/renders/body/069a79f444e94726a5befca90e38aaf5?overlay"
	if result.Embed.Image.URL != want {
		t.Errorf("unexpected render url %q", result.Embed.Image.URL)
	}
}
