package domain

import (
	"errors"
	"testing"
)

func TestParseMessageLink(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		guild     string
		channel   string
		message   string
		isDiscord bool
	}{
		{"guild link", "https://discord.com/channels/111/222/333", "111", "222", "333", true},
		{"ptb host", "https://ptb.discord.com/channels/1/2/3", "1", "2", "3", true},
		{"legacy host", "https://discordapp.com/channels/1/2/3/", "1", "2", "3", true},
		{"direct message", "https://discord.com/channels/@me/2/3", "@me", "2", "3", true},
		{"whitespace", "  https://canary.discord.com/channels/9/8/7\n", "9", "8", "7", true},
		{"channel only", "https://discord.com/channels/1/2", "", "", "", false},
		{"other host", "https://example.com/channels/1/2/3", "", "", "", false},
		{"free text", "not a url", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := ParseMessageLink(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link.GuildID != tt.guild || link.ChannelID != tt.channel || link.MessageID != tt.message {
				t.Errorf("got %+v", link)
			}
			if link.IsDiscord() != tt.isDiscord {
				t.Errorf("IsDiscord() = %v, want %v", link.IsDiscord(), tt.isDiscord)
			}
			if link.Raw == "" {
				t.Error("expected Raw to be kept")
			}
		})
	}
}

func TestParseMessageLink_TrimsRaw(t *testing.T) {
	link, err := ParseMessageLink("  https://discord.com/channels/1/2/3  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.String() != "https://discord.com/channels/1/2/3" {
		t.Errorf("expected trimmed link, got %q", link.String())
	}
}

func TestParseMessageLink_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := ParseMessageLink(raw); !errors.Is(err, ErrEmptyLink) {
			t.Errorf("ParseMessageLink(%q) error = %v, want ErrEmptyLink", raw, err)
		}
	}
}

func TestMessageLinkIsDirectMessage(t *testing.T) {
	link, _ := ParseMessageLink("https://discord.com/channels/@me/2/3")
	if !link.IsDirectMessage() {
		t.Error("expected DM link")
	}
}
