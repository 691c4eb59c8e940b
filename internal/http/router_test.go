package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/config"
	"ateliernoor.nl/app/internal/modules/catalog"
	"ateliernoor.nl/app/internal/modules/email"
	"ateliernoor.nl/app/internal/modules/orders"
	"ateliernoor.nl/app/internal/modules/returns"
	"ateliernoor.nl/app/internal/modules/shipping"
	"ateliernoor.nl/app/internal/modules/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	db     *gorm.DB
	router *gin.Engine
	mailer *email.Mock

	customerToken string
	adminToken    string
	strangerToken string

	variant catalog.Variant
	order   orders.Order
	ret     returns.Return
}

// newAPIFixture stands up the full router against an in-memory database:
// a customer with an open return, an admin, and an unrelated second customer,
// each with a live session.
func newAPIFixture(t *testing.T, status returns.Status) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&users.User{}, &users.Session{},
		&catalog.Variant{},
		&orders.Order{}, &orders.OrderItem{},
		&returns.Return{}, &returns.ReturnItem{}, &returns.StatusHistory{}, &returns.Task{},
	))

	f := &apiFixture{db: db, mailer: &email.Mock{}}

	now := time.Now()
	customer := users.User{ID: uuid.NewString(), Email: "sanne@example.com", Name: "Sanne de Vries", Role: "customer", CreatedAt: now, UpdatedAt: now}
	admin := users.User{ID: uuid.NewString(), Email: "beheer@ateliernoor.nl", Name: "Beheer", Role: "admin", CreatedAt: now, UpdatedAt: now}
	stranger := users.User{ID: uuid.NewString(), Email: "joris@example.com", Name: "Joris Bakker", Role: "customer", CreatedAt: now, UpdatedAt: now}

	f.customerToken = uuid.NewString()
	f.adminToken = uuid.NewString()
	f.strangerToken = uuid.NewString()
	sessions := []users.Session{
		{Token: f.customerToken, UserID: customer.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now},
		{Token: f.adminToken, UserID: admin.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now},
		{Token: f.strangerToken, UserID: stranger.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now},
	}

	f.variant = catalog.Variant{ID: uuid.NewString(), ProductID: uuid.NewString(), SKU: "JURK-M", Name: "Linnen jurk - M", StockQuantity: 5, IsAvailable: true, CreatedAt: now, UpdatedAt: now}
	f.order = orders.Order{
		ID: uuid.NewString(), UserID: &customer.ID, Email: customer.Email,
		Status: orders.StatusReturnRequested, PaymentStatus: "paid",
		TotalCents: 9395, Currency: "EUR",
		ShippingName: "Sanne de Vries", ShippingCity: "Amsterdam", ShippingCountry: "NL",
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now,
	}
	item := orders.OrderItem{
		ID: uuid.NewString(), OrderID: f.order.ID, ProductID: f.variant.ProductID,
		VariantID: &f.variant.ID, ProductName: "Linnen jurk", SKU: f.variant.SKU,
		Quantity: 1, UnitPriceCents: 8900, Currency: "EUR", CreatedAt: now.Add(-time.Hour),
	}
	f.ret = returns.Return{
		ID: uuid.NewString(), OrderID: f.order.ID, UserID: &customer.ID,
		Status: status, CreatedAt: now.Add(-30 * time.Minute), UpdatedAt: now,
	}
	retItem := returns.ReturnItem{
		ID: uuid.NewString(), ReturnID: f.ret.ID, OrderItemID: item.ID,
		Quantity: 1, Reason: "Verkeerde maat", CreatedAt: now.Add(-30 * time.Minute),
	}
	hist := returns.StatusHistory{
		ID: uuid.NewString(), ReturnID: f.ret.ID, Status: returns.StatusRequested,
		CreatedAt: now.Add(-30 * time.Minute),
	}

	for _, rec := range []any{&customer, &admin, &stranger, &f.variant, &f.order, &item, &f.ret, &retItem, &hist} {
		require.NoError(t, db.Create(rec).Error)
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	carrier, err := shipping.NewGateway(config.CarrierConfig{PublicKey: "pub", SecretKey: "sec"})
	require.NoError(t, err)

	f.router = NewRouter(Deps{
		DB:      db,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Mailer:  f.mailer,
		Carrier: carrier,
		Archive: nil,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (f *apiFixture) setLabelURL(t *testing.T, url string) {
	t.Helper()
	require.NoError(t, f.db.Model(&returns.Return{}).
		Where("id = ?", f.ret.ID).
		Update("return_label_url", url).Error)
}

func TestReturnDetail(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID, "", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
	})

	t.Run("owner sees return, order and timeline", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID, f.customerToken, nil)
		require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

		body := decodeJSON(t, w)
		ret := body["return"].(map[string]any)
		assert.Equal(t, f.ret.ID, ret["id"])
		assert.Equal(t, string(returns.StatusRequested), ret["status"])

		order := body["order"].(map[string]any)
		assert.Equal(t, f.order.ID, order["id"])
		items := order["items"].([]any)
		require.Len(t, items, 1)

		history := body["status_history"].([]any)
		require.Len(t, history, 1)
	})

	t.Run("admin may view any return", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID, f.adminToken, nil)
		assert.Equal(t, nethttp.StatusOK, w.Code)
	})

	t.Run("other customer is refused", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID, f.strangerToken, nil)
		assert.Equal(t, nethttp.StatusForbidden, w.Code)
	})

	t.Run("unknown return", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "GET", "/api/returns/"+uuid.NewString(), f.customerToken, nil)
		assert.Equal(t, nethttp.StatusNotFound, w.Code)
	})
}

func TestAdminReject(t *testing.T) {
	path := func(f *apiFixture) string { return "/api/admin/returns/" + f.ret.ID + "/reject" }

	t.Run("requires an admin session", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)

		w := f.do(t, "POST", path(f), "", gin.H{"rejection_reason": "x"})
		assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

		w = f.do(t, "POST", path(f), f.customerToken, gin.H{"rejection_reason": "x"})
		assert.Equal(t, nethttp.StatusForbidden, w.Code)
	})

	t.Run("validates the reason", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "POST", path(f), f.adminToken, gin.H{"admin_notes": "zonder reden"})
		require.Equal(t, nethttp.StatusBadRequest, w.Code)

		body := decodeJSON(t, w)
		fields := body["fields"].(map[string]any)
		assert.Contains(t, fields, "rejection_reason")
	})

	t.Run("rejects and reverts the order", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "POST", path(f), f.adminToken, gin.H{
			"rejection_reason": "Product beschadigd",
			"admin_notes":      "Krassen op de gesp",
		})
		require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

		body := decodeJSON(t, w)
		assert.Equal(t, true, body["success"])
		ret := body["return"].(map[string]any)
		assert.Equal(t, string(returns.StatusRejected), ret["status"])

		var o orders.Order
		require.NoError(t, f.db.First(&o, "id = ?", f.order.ID).Error)
		assert.Equal(t, orders.StatusDelivered, o.Status)

		require.Len(t, f.mailer.Sent, 1)
		assert.Equal(t, "sanne@example.com", f.mailer.Sent[0].To)
	})

	t.Run("second reject is an invalid transition", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)

		w := f.do(t, "POST", path(f), f.adminToken, gin.H{"rejection_reason": "Te laat"})
		require.Equal(t, nethttp.StatusOK, w.Code)

		w = f.do(t, "POST", path(f), f.adminToken, gin.H{"rejection_reason": "Te laat"})
		require.Equal(t, nethttp.StatusBadRequest, w.Code)

		body := decodeJSON(t, w)
		assert.Contains(t, body["error"], "return_rejected")
	})
}

func TestAdminReceive(t *testing.T) {
	t.Run("confirms receipt and restocks without a body", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusInTransit)

		w := f.do(t, "POST", "/api/admin/returns/"+f.ret.ID+"/receive", f.adminToken, nil)
		require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

		body := decodeJSON(t, w)
		ret := body["return"].(map[string]any)
		assert.Equal(t, string(returns.StatusReceived), ret["status"])
		assert.NotEmpty(t, ret["received_at"])

		var v catalog.Variant
		require.NoError(t, f.db.First(&v, "id = ?", f.variant.ID).Error)
		assert.Equal(t, 6, v.StockQuantity)

		var o orders.Order
		require.NoError(t, f.db.First(&o, "id = ?", f.order.ID).Error)
		assert.Equal(t, orders.StatusReturnReceived, o.Status)
	})

	t.Run("refuses a return that is not underway", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusRequested)
		w := f.do(t, "POST", "/api/admin/returns/"+f.ret.ID+"/receive", f.adminToken, nil)
		assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	})
}

func TestDownloadLabel(t *testing.T) {
	t.Run("no label yet", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusApproved)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID+"/label", f.customerToken, nil)
		require.Equal(t, nethttp.StatusNotFound, w.Code)

		body := decodeJSON(t, w)
		assert.Contains(t, body["error"], "retourlabel")
	})

	t.Run("proxies the pdf as an attachment", func(t *testing.T) {
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "pub", user)
			assert.Equal(t, "sec", pass)

			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4 retourlabel"))
		}))
		defer srv.Close()

		f := newAPIFixture(t, returns.StatusLabelGenerated)
		f.setLabelURL(t, srv.URL+"/labels/xyz")

		w := f.do(t, "GET", "/api/returns/"+f.ret.ID+"/label", f.customerToken, nil)
		require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="retourlabel-`)
		assert.Equal(t, "%PDF-1.4 retourlabel", w.Body.String())
	})

	t.Run("carrier failure is not exposed verbatim", func(t *testing.T) {
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			_, _ = w.Write([]byte("internal carrier dump"))
		}))
		defer srv.Close()

		f := newAPIFixture(t, returns.StatusLabelGenerated)
		f.setLabelURL(t, srv.URL)

		w := f.do(t, "GET", "/api/returns/"+f.ret.ID+"/label", f.customerToken, nil)
		require.Equal(t, nethttp.StatusInternalServerError, w.Code)

		body := decodeJSON(t, w)
		assert.Contains(t, body["error"], "503")
		assert.NotContains(t, w.Body.String(), "internal carrier dump")
	})

	t.Run("label of someone else's return", func(t *testing.T) {
		f := newAPIFixture(t, returns.StatusLabelGenerated)
		w := f.do(t, "GET", "/api/returns/"+f.ret.ID+"/label", f.strangerToken, nil)
		assert.Equal(t, nethttp.StatusForbidden, w.Code)
	})
}
