package domain

// CustomerInfo is the checkout form the customer fills in before the order
// summary is generated. There is no account system; this is all we ever
// know about the customer.
type CustomerInfo struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Landmark      string `json:"landmark,omitempty"`
	OrderType     string `json:"order_type"`
	PaymentMethod string `json:"payment_method"`
}
