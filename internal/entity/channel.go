package entity

import "strings"

// Channel is where the customer is sent to finish the order by hand.
type Channel string

const (
	ChannelDiscord  Channel = "discord"
	ChannelWhatsApp Channel = "whatsapp"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelDiscord:
		return ChannelDiscord, nil
	case ChannelWhatsApp:
		return ChannelWhatsApp, nil
	}
	return "", NewValidationError("channel must be discord or whatsapp")
}
