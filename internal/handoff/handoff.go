// Package handoff builds the links that send a customer to a chat platform
// where the order is fulfilled by hand.
package handoff

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront-service/internal/entity"
)

const messageTemplate = "Hi! I just placed an order.\n\nOrder ID: %s\nProduct: %s\nQuantity: %d\nTotal: %s%s\n\nI have completed the payment. Please process my order."

type Builder struct {
	DiscordTicketURL string
	WhatsAppNumber   string
	CurrencySymbol   string
}

// Link returns the URL for the given channel, pre-filled with the order
// details where the platform allows it.
func (b Builder) Link(ch entity.Channel, o entity.Order) (string, error) {
	switch ch {
	case entity.ChannelDiscord:
		return b.DiscordTicketURL, nil
	case entity.ChannelWhatsApp:
		return fmt.Sprintf("https://wa.me/%s?text=%s", b.WhatsAppNumber, encodeComponent(b.Message(o))), nil
	}
	return "", entity.NewValidationError(fmt.Sprintf("unknown channel %q", ch))
}

func (b Builder) Message(o entity.Order) string {
	return fmt.Sprintf(messageTemplate, o.OrderID, o.ProductName, o.Quantity, b.CurrencySymbol, strconv.FormatFloat(o.Total, 'f', 2, 64))
}

// encodeComponent percent-encodes s with %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
