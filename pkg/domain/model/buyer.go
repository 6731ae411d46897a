package model

type Payment string

const (
	PaymentUnset Payment = ""
	PaymentCard  Payment = "card"
	PaymentCash  Payment = "cash"
)

// Field keys used by form:changed payloads and validation diagnostics.
const (
	FieldPayment = "payment"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
)

// Buyer is the checkout form state. Empty string means the field has not
// been provided yet.
type Buyer struct {
	Payment Payment `json:"payment"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
}

// BuyerPatch carries a partial buyer update; nil fields stay unchanged.
type BuyerPatch struct {
	Payment *Payment
	Email   *string
	Phone   *string
	Address *string
}

// ValidationErrors maps a field key to a human-readable message. A missing
// key means the field is valid.
type ValidationErrors map[string]string
