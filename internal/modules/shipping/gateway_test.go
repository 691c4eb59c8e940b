package shipping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ateliernoor.nl/app/internal/config"
)

func testCfg() config.CarrierConfig {
	return config.CarrierConfig{PublicKey: "pub-key", SecretKey: "secret-key"}
}

func TestNewGateway(t *testing.T) {
	t.Run("valid keys", func(t *testing.T) {
		g, err := NewGateway(testCfg())
		require.NoError(t, err)
		require.NotNil(t, g)
	})

	t.Run("missing keys name both settings", func(t *testing.T) {
		for _, cfg := range []config.CarrierConfig{
			{},
			{PublicKey: "pub-key"},
			{SecretKey: "secret-key"},
		} {
			_, err := NewGateway(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SENDCLOUD_PUBLIC_KEY")
			assert.Contains(t, err.Error(), "SENDCLOUD_SECRET_KEY")
		}
	})
}

func TestFetchLabel(t *testing.T) {
	ctx := context.Background()

	t.Run("sends basic auth and returns the document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok, "expected basic auth")
			assert.Equal(t, "pub-key", user)
			assert.Equal(t, "secret-key", pass)

			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4 label"))
		}))
		defer srv.Close()

		g, err := NewGateway(testCfg())
		require.NoError(t, err)

		data, ct, err := g.FetchLabel(ctx, srv.URL+"/labels/abc")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", ct)
		assert.Equal(t, []byte("%PDF-1.4 label"), data)
	})

	t.Run("defaults the content type to pdf", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header()["Content-Type"] = nil // suppress Go's sniffing header
			_, _ = w.Write([]byte("raw"))
		}))
		defer srv.Close()

		g, err := NewGateway(testCfg())
		require.NoError(t, err)

		_, ct, err := g.FetchLabel(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", ct)
	})

	t.Run("non-2xx becomes a CarrierError with upstream details", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"label expired"}`))
		}))
		defer srv.Close()

		g, err := NewGateway(testCfg())
		require.NoError(t, err)

		_, _, err = g.FetchLabel(ctx, srv.URL)
		require.Error(t, err)

		var ce *CarrierError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, http.StatusForbidden, ce.StatusCode)
		assert.Contains(t, ce.Body, "label expired")
	})

	t.Run("transport failure after retry surfaces the error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close() // nothing listening anymore

		g, err := NewGateway(testCfg())
		require.NoError(t, err)

		_, _, err = g.FetchLabel(ctx, url)
		require.Error(t, err)
	})
}
