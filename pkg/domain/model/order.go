package model

// OrderData is the payload sent to the larek API at submit time. Items keeps
// the basket order.
type OrderData struct {
	Payment Payment  `json:"payment"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Total   int64    `json:"total"`
	Items   []string `json:"items"`
}

// OrderResult is the server confirmation for a placed order.
type OrderResult struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}
