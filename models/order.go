package models

import "time"

// LineItem is a snapshot captured into an order at creation time. It holds
// the name and unit price as they were when the customer checked out, so
// later catalog edits never alter historical orders.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"` // unit price, cents
}

type Order struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	Items       []LineItem `json:"items"`
	TotalAmount int64      `json:"total_amount"` // cents
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PlaceOrderInput struct {
	Items []LineItem `json:"items"`
	Notes string     `json:"notes"`
}
