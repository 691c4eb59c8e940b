package orders

import "time"

// Order status values the returns flow writes back. The checkout flow owns the
// earlier part of the lifecycle (created/paid/shipped/delivered).
const (
	StatusDelivered       = "delivered"
	StatusReturnRequested = "return_requested"
	StatusReturnInTransit = "return_in_transit"
	StatusReturnReceived  = "return_received"
	StatusReturnCompleted = "return_completed"
)

type Order struct {
	ID     string  `gorm:"primaryKey;size:36" json:"id"`
	UserID *string `gorm:"size:36;index" json:"user_id,omitempty"`
	Email  string  `gorm:"size:255" json:"email"`

	Status        string `gorm:"size:40;index" json:"status"`
	PaymentStatus string `gorm:"size:40" json:"payment_status"`

	SubtotalCents int    `json:"subtotal_cents"`
	ShippingCents int    `json:"shipping_cents"`
	TotalCents    int    `json:"total_cents"`
	Currency      string `gorm:"size:3" json:"currency"`

	// Address snapshots, frozen at checkout.
	ShippingName     string `gorm:"size:120" json:"shipping_name"`
	ShippingStreet   string `gorm:"size:200" json:"shipping_street"`
	ShippingPostcode string `gorm:"size:20" json:"shipping_postcode"`
	ShippingCity     string `gorm:"size:120" json:"shipping_city"`
	ShippingCountry  string `gorm:"size:2" json:"shipping_country"`
	BillingName      string `gorm:"size:120" json:"billing_name"`
	BillingStreet    string `gorm:"size:200" json:"billing_street"`
	BillingPostcode  string `gorm:"size:20" json:"billing_postcode"`
	BillingCity      string `gorm:"size:120" json:"billing_city"`
	BillingCountry   string `gorm:"size:2" json:"billing_country"`

	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is immutable once created; the returns flow only reads it to
// resolve which variant to restock.
type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string  `gorm:"size:36;index" json:"order_id"`
	ProductID string  `gorm:"size:36" json:"product_id"`
	VariantID *string `gorm:"size:36" json:"variant_id,omitempty"`

	ProductName    string `gorm:"size:200" json:"product_name"`
	SKU            string `gorm:"size:64" json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Currency       string `gorm:"size:3" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
