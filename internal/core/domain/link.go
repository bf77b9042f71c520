package domain

import (
	"net/url"
	"strings"
)

// MessageLink is a pasted link to a single chat message.
// The IDs are only populated for recognised Discord channel links.
type MessageLink struct {
	Raw       string
	GuildID   string
	ChannelID string
	MessageID string
}

var discordHosts = map[string]bool{
	"discord.com":        true,
	"www.discord.com":    true,
	"ptb.discord.com":    true,
	"canary.discord.com": true,
	"discordapp.com":     true,
	"www.discordapp.com": true,
}

// ParseMessageLink trims the input and extracts Discord message IDs when possible.
// Any non-empty text is accepted; the API is the authority on validity.
func ParseMessageLink(raw string) (MessageLink, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MessageLink{}, ErrEmptyLink
	}

	link := MessageLink{Raw: raw}

	u, err := url.Parse(raw)
	if err != nil || !discordHosts[strings.ToLower(u.Host)] {
		return link, nil
	}

	// /channels/<guild|@me>/<channel>/<message>
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 4 && parts[0] == "channels" {
		link.GuildID = parts[1]
		link.ChannelID = parts[2]
		link.MessageID = parts[3]
	}

	return link, nil
}

// IsDiscord reports whether the link was recognised as a Discord message link
func (l MessageLink) IsDiscord() bool {
	return l.MessageID != ""
}

// IsDirectMessage reports whether the link points into a DM channel
func (l MessageLink) IsDirectMessage() bool {
	return l.GuildID == "@me"
}

func (l MessageLink) String() string {
	return l.Raw
}
