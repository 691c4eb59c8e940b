// Dev tool: creates the schema and seeds a demo admin plus an order with an
// open return, so the API can be exercised locally right away.
package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/config"
	"ateliernoor.nl/app/internal/modules/catalog"
	"ateliernoor.nl/app/internal/modules/orders"
	"ateliernoor.nl/app/internal/modules/returns"
	"ateliernoor.nl/app/internal/modules/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&users.Session{},
		&catalog.Variant{},
		&orders.Order{},
		&orders.OrderItem{},
		&returns.Return{},
		&returns.ReturnItem{},
		&returns.StatusHistory{},
		&returns.Task{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("tables created")

	seed(db)
}

func seed(db *gorm.DB) {
	var count int64
	db.Model(&users.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		log.Println("admin already present, skipping seed")
		return
	}

	now := time.Now()
	admin := users.User{ID: uuid.NewString(), Email: "admin@ateliernoor.nl", Name: "Beheer", Role: "admin", CreatedAt: now, UpdatedAt: now}
	customer := users.User{ID: uuid.NewString(), Email: "klant@example.com", Name: "Sanne de Vries", Role: "customer", CreatedAt: now, UpdatedAt: now}

	variant := catalog.Variant{
		ID: uuid.NewString(), ProductID: uuid.NewString(), SKU: "LINNEN-JURK-M",
		Name: "Linnen jurk - maat M", StockQuantity: 5, IsAvailable: true,
		CreatedAt: now, UpdatedAt: now,
	}

	paid := now.Add(-96 * time.Hour)
	delivered := now.Add(-48 * time.Hour)
	order := orders.Order{
		ID: uuid.NewString(), UserID: &customer.ID, Email: customer.Email,
		Status: orders.StatusReturnRequested, PaymentStatus: "paid",
		SubtotalCents: 8900, ShippingCents: 495, TotalCents: 9395, Currency: "EUR",
		ShippingName: customer.Name, ShippingStreet: "Keizersgracht 12",
		ShippingPostcode: "1015 CN", ShippingCity: "Amsterdam", ShippingCountry: "NL",
		BillingName: customer.Name, BillingStreet: "Keizersgracht 12",
		BillingPostcode: "1015 CN", BillingCity: "Amsterdam", BillingCountry: "NL",
		CreatedAt: now.Add(-120 * time.Hour), PaidAt: &paid, DeliveredAt: &delivered, UpdatedAt: now,
	}
	item := orders.OrderItem{
		ID: uuid.NewString(), OrderID: order.ID, ProductID: variant.ProductID,
		VariantID: &variant.ID, ProductName: "Linnen jurk", SKU: variant.SKU,
		Quantity: 1, UnitPriceCents: 8900, Currency: "EUR", CreatedAt: order.CreatedAt,
	}

	ret := returns.Return{
		ID: uuid.NewString(), OrderID: order.ID, UserID: &customer.ID,
		Status: returns.StatusRequested, CreatedAt: now, UpdatedAt: now,
	}
	retItem := returns.ReturnItem{
		ID: uuid.NewString(), ReturnID: ret.ID, OrderItemID: item.ID,
		Quantity: 1, Reason: "Verkeerde maat", CreatedAt: now,
	}
	hist := returns.StatusHistory{
		ID: uuid.NewString(), ReturnID: ret.ID, Status: returns.StatusRequested, CreatedAt: now,
	}

	session := users.Session{Token: uuid.NewString(), UserID: admin.ID, ExpiresAt: now.Add(30 * 24 * time.Hour), CreatedAt: now}

	for _, rec := range []any{&admin, &customer, &variant, &order, &item, &ret, &retItem, &hist, &session} {
		if err := db.Create(rec).Error; err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	log.Printf("seeded: admin session token %s, return %s", session.Token, ret.ID)
}
