package discord

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/parse"
)

func findField(embed *discordgo.MessageEmbed, name string) *discordgo.MessageEmbedField {
	for _, field := range embed.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

func TestUserMutualGuildsForElevated(t *testing.T) {
	member := &parse.Member{ID: "12345678", Tag: "user#0001"}
	members := &fakeMembers{byID: map[string]*parse.Member{"12345678": member}}

	cmd := &userCommand{mutualGuilds: func(userID string) []string {
		if userID != "12345678" {
			t.Errorf("unexpected user id %q", userID)
		}
		return []string{"Guild One", "Guild Two"}
	}}

	ctx := testContext([]string{"12345678", "admin", "mutual"}, members)
	ctx.Elevated = true

	result, err := cmd.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embed == nil {
		t.Fatal("expected an embed")
	}

	field := findField(result.Embed, "Mutual Guilds")
	if field == nil {
		t.Fatal("mutual guilds field missing")
	}
	if !strings.Contains(field.Value, "Guild One") || !strings.Contains(field.Value, "Guild Two") {
		t.Errorf("unexpected mutual guilds value: %q", field.Value)
	}
}

func TestUserAdminMutualFallsThroughForNonElevated(t *testing.T) {
	member := &parse.Member{ID: "12345678", Tag: "user#0001"}
	members := &fakeMembers{byID: map[string]*parse.Member{"12345678": member}}

	cmd := &userCommand{mutualGuilds: func(string) []string {
		t.Error("mutual guilds must not be listed for non-elevated callers")
		return nil
	}}

	// Non-elevated callers get the normal lookup; the trailing tokens are
	// not interpreted as sub-actions.
	result, err := cmd.Run(testContext([]string{"12345678", "admin", "mutual"}, members))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embed == nil || result.Embed.Title != "user#0001" {
		t.Fatalf("expected normal member embed, got %+v", result)
	}
	if findField(result.Embed, "Mutual Guilds") != nil {
		t.Error("mutual guilds field leaked to non-elevated caller")
	}
}

func TestUserAdminSnowflakeForUnknownID(t *testing.T) {
	cmd := &userCommand{mutualGuilds: func(string) []string { return nil }}

	ctx := testContext([]string{"99999999999999", "admin", "mutual"}, &fakeMembers{})
	ctx.Elevated = true

	result, err := cmd.Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embed == nil || result.Embed.Title != "Unknown User" {
		t.Fatalf("expected snowflake embed, got %+v", result)
	}
	if findField(result.Embed, "Account Created") == nil {
		t.Error("account created field missing")
	}
	if field := findField(result.Embed, "Mutual Guilds"); field == nil || field.Value != "(none)" {
		t.Errorf("expected empty mutual guilds field, got %+v", field)
	}
}
