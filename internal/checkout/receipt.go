package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sweet-treats/internal/domain"
)

// ErrEmptyCart is returned when checkout is attempted with no lines.
var ErrEmptyCart = errors.New("cart is empty")

const rule = "━━━━━━━━━━━━━━━━"

// gcashNote is appended when the customer pays over GCASH, mirroring the
// manual confirmation flow: the shop only treats the order as placed once
// the payment screenshot arrives in chat.
const gcashNote = "⚠️ IMPORTANT\nPlease send your GCASH PAYMENT RECEIPT here to confirm your order."

// Builder renders the human-readable order summary the customer pastes
// into the shop's chat. There is no machine-readable submission; this text
// is the entire order protocol.
type Builder struct {
	shopName     string
	currency     string
	messengerURL string
	location     *time.Location
	now          func() time.Time
}

// NewBuilder configures a receipt builder. locale is an IANA time zone name
// for the order timestamp; an unknown name falls back to the local zone.
func NewBuilder(shopName, currency, messengerURL, timezone string) *Builder {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	return &Builder{
		shopName:     shopName,
		currency:     currency,
		messengerURL: messengerURL,
		location:     loc,
		now:          time.Now,
	}
}

// MessengerURL is the external chat address the customer is sent to after
// copying the receipt.
func (b *Builder) MessengerURL() string {
	return b.messengerURL
}

// Receipt builds the order summary text.
func (b *Builder) Receipt(info domain.CustomerInfo, lines []domain.CartLine, totals domain.Totals, shipping *domain.ShippingZone) (string, error) {
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🧾 %s\n%s\n", strings.ToUpper(b.shopName), rule)
	fmt.Fprintf(&sb, "👤 Name: %s\n", info.Name)

	address := info.Address
	if info.Landmark != "" {
		address += " (" + info.Landmark + ")"
	}
	fmt.Fprintf(&sb, "📍 Address: %s\n", address)
	fmt.Fprintf(&sb, "🚚 Order: %s\n", info.OrderType)
	fmt.Fprintf(&sb, "💳 Payment: %s\n", info.PaymentMethod)
	fmt.Fprintf(&sb, "🕒 Time: %s\n%s\n", b.timestamp(), rule)

	for _, l := range lines {
		fmt.Fprintf(&sb, "✅ %d× %s — %s\n", l.Quantity, l.Name, b.money(l.Subtotal()))
	}
	sb.WriteString(rule + "\n")

	if shipping != nil {
		fmt.Fprintf(&sb, "Subtotal: %s\n", b.money(totals.Subtotal))
		fmt.Fprintf(&sb, "🚚 Shipping (%s): %s\n", shipping.Name, b.money(totals.ShippingFee))
	}
	fmt.Fprintf(&sb, "💰 TOTAL: %s", b.money(totals.Total))

	if strings.EqualFold(info.PaymentMethod, "GCASH") {
		sb.WriteString("\n\n" + gcashNote)
	}

	return sb.String(), nil
}

func (b *Builder) money(amount float64) string {
	return fmt.Sprintf("%s%.2f", b.currency, amount)
}

func (b *Builder) timestamp() string {
	// Medium date, short time, matching the storefront's locale style.
	return b.now().In(b.location).Format("Jan 2, 2006, 3:04 PM")
}
