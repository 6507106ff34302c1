package usecase

// Published on order.events / order.placed after checkout.
type OrderPlacedMsg struct {
	OrderID   string   `json:"orderId"`
	UserID    string   `json:"userId"`
	Total     string   `json:"total"`
	Currency  string   `json:"currency"`
	ItemCount int      `json:"itemCount"`
	ShopIDs   []string `json:"shopIds"`
}

// Sent by fulfilment on Kafka
type OrderStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Status  string `json:"status"` // e.g. "SUCCESS"
}
