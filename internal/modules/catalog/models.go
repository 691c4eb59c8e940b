package catalog

import "time"

// Variant is a purchasable SKU. The returns flow only ever increments
// stock_quantity; availability toggling stays with the catalog admin.
type Variant struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProductID string `gorm:"size:36;index" json:"product_id"`
	SKU       string `gorm:"size:64;uniqueIndex" json:"sku"`
	Name      string `gorm:"size:200" json:"name"`

	StockQuantity int  `json:"stock_quantity"`
	IsAvailable   bool `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Variant) TableName() string { return "product_variants" }
