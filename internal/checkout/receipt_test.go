package checkout

import (
	"strings"
	"testing"
	"time"

	"sweet-treats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBuilder() *Builder {
	b := NewBuilder("Sky Sweet Treats", "₱", "https://m.me/sky.sweet.treats", "Asia/Manila")
	b.now = func() time.Time {
		return time.Date(2026, time.March, 14, 6, 30, 0, 0, time.UTC) // 14:30 in Manila
	}
	return b
}

func sampleOrder() (domain.CustomerInfo, []domain.CartLine, domain.Totals) {
	info := domain.CustomerInfo{
		Name:          "Ana Cruz",
		Address:       "12 Mabini St",
		Landmark:      "beside the barangay hall",
		OrderType:     "Delivery",
		PaymentMethod: "GCASH",
	}
	lines := []domain.CartLine{
		{ID: "p1", ProductID: "p1", Name: "Mango Graham", UnitPrice: 50, Quantity: 2},
		{ID: "p2", ProductID: "p2", Name: "Ube Halaya", UnitPrice: 30, Quantity: 1},
	}
	totals := domain.Totals{Subtotal: 130, ShippingFee: 25, Total: 155, ItemCount: 3}
	return info, lines, totals
}

func TestReceipt(t *testing.T) {
	info, lines, totals := sampleOrder()
	zone := &domain.ShippingZone{Name: "Zone 1", Fee: 25}

	receipt, err := fixedBuilder().Receipt(info, lines, totals, zone)
	require.NoError(t, err)

	assert.Contains(t, receipt, "🧾 SKY SWEET TREATS")
	assert.Contains(t, receipt, "👤 Name: Ana Cruz")
	assert.Contains(t, receipt, "📍 Address: 12 Mabini St (beside the barangay hall)")
	assert.Contains(t, receipt, "🚚 Order: Delivery")
	assert.Contains(t, receipt, "💳 Payment: GCASH")
	assert.Contains(t, receipt, "🕒 Time: Mar 14, 2026, 2:30 PM")
	assert.Contains(t, receipt, "✅ 2× Mango Graham — ₱100.00")
	assert.Contains(t, receipt, "✅ 1× Ube Halaya — ₱30.00")
	assert.Contains(t, receipt, "Subtotal: ₱130.00")
	assert.Contains(t, receipt, "🚚 Shipping (Zone 1): ₱25.00")
	assert.Contains(t, receipt, "💰 TOTAL: ₱155.00")
	assert.Contains(t, receipt, "GCASH PAYMENT RECEIPT")
}

func TestReceiptWithoutShippingOrGcash(t *testing.T) {
	info, lines, totals := sampleOrder()
	info.PaymentMethod = "Cash"
	totals.ShippingFee = 0
	totals.Total = totals.Subtotal

	receipt, err := fixedBuilder().Receipt(info, lines, totals, nil)
	require.NoError(t, err)

	assert.NotContains(t, receipt, "Subtotal:", "subtotal line only appears alongside a shipping fee")
	assert.Contains(t, receipt, "💰 TOTAL: ₱130.00")
	assert.NotContains(t, receipt, "GCASH PAYMENT RECEIPT")
	assert.False(t, strings.HasSuffix(receipt, "\n"))
}

func TestReceiptEmptyCart(t *testing.T) {
	info, _, _ := sampleOrder()
	_, err := fixedBuilder().Receipt(info, nil, domain.Totals{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestMessengerURL(t *testing.T) {
	assert.Equal(t, "https://m.me/sky.sweet.treats", fixedBuilder().MessengerURL())
}
