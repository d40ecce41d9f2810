package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talkincode/toughstore/internal/domain"
)

var rupees = message.NewPrinter(language.English)

// FormatAmount renders a rupee amount with thousands grouping, e.g.
// "Rs. 2,000".
func FormatAmount(v float64) string {
	return rupees.Sprintf("Rs. %.0f", v)
}

// OrderRef is the short human-facing order number shown to customers.
func OrderRef(orderID int64) string {
	s := fmt.Sprintf("%d", orderID)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return "TS-" + s
}

// ComposeSummary builds the plain-text order summary handed to the operator:
// header, order reference, customer details, itemized lines and totals.
func ComposeSummary(storeName string, order domain.Order, items []domain.OrderItem, in ShippingInput) string {
	if storeName == "" {
		storeName = "Toughstore"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*New Order from %s*\n\n", storeName)
	fmt.Fprintf(&b, "*Order ID:* %s\n\n", OrderRef(order.ID))

	b.WriteString("*Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", in.FullName)
	fmt.Fprintf(&b, "Phone: %s\n", in.Phone)
	fmt.Fprintf(&b, "Address: %s\n", in.Address)
	fmt.Fprintf(&b, "City: %s\n\n", in.City)

	b.WriteString("*Order Items:*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s × %d - %s\n",
			item.ProductName, item.Quantity,
			FormatAmount(item.ProductPrice*float64(item.Quantity)))
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s\n", FormatAmount(order.Total))
	b.WriteString("*Shipping:* Free\n")
	fmt.Fprintf(&b, "*Total:* %s\n", FormatAmount(order.Total))

	if in.Notes != "" {
		fmt.Fprintf(&b, "\n*Notes:* %s", in.Notes)
	}
	return b.String()
}

// WhatsAppLink builds the deep link that opens a prefilled chat with the
// store operator. The number uses international format without the plus sign.
func WhatsAppLink(number, text string) string {
	if number == "" {
		return ""
	}
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}
