package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID         int32       `json:"id"`
	UserID     int32       `json:"user_id"`
	TotalCents int32       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	PaymentRef string      `json:"payment_ref"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedOn  time.Time   `json:"created_on"`
	UpdatedOn  time.Time   `json:"updated_on"`
}

type OrderItem struct {
	ID             int32  `json:"id"`
	OrderID        int32  `json:"order_id"`
	ProductID      int32  `json:"product_id"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int32  `json:"unit_price_cents"` // price snapshot at checkout time
	Name           string `json:"name"`
}
