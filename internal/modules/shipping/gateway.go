package shipping

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ateliernoor.nl/app/internal/config"
)

// CarrierError carries the upstream status and body so label failures can be
// reported with the provider's own diagnostics.
type CarrierError struct {
	StatusCode int
	Body       string
}

func (e *CarrierError) Error() string {
	return fmt.Sprintf("carrier responded %d: %s", e.StatusCode, e.Body)
}

// Gateway authenticates against the shipping-label provider. The public and
// secret key are combined into an HTTP Basic credential; the keys never leave
// the server, label bytes are proxied to the customer instead.
type Gateway struct {
	publicKey string
	secretKey string
	client    *http.Client
}

// NewGateway fails fast when either key is missing so a misconfigured process
// never makes it to the first carrier call.
func NewGateway(cfg config.CarrierConfig) (*Gateway, error) {
	if cfg.PublicKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("carrier credentials missing: SENDCLOUD_PUBLIC_KEY and SENDCLOUD_SECRET_KEY must both be set")
	}
	return &Gateway{
		publicKey: cfg.PublicKey,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// FetchLabel issues an authenticated GET for the label document and returns
// the raw bytes plus the upstream content type. Transport errors get a single
// retry; a non-2xx answer is terminal and surfaces as *CarrierError.
func (g *Gateway) FetchLabel(ctx context.Context, labelURL string) ([]byte, string, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, labelURL, nil)
		if err != nil {
			return nil, "", err
		}
		req.SetBasicAuth(g.publicKey, g.secretKey)

		res, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if res.StatusCode < 200 || res.StatusCode > 299 {
			return nil, "", &CarrierError{StatusCode: res.StatusCode, Body: truncateBody(body)}
		}

		ct := res.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/pdf"
		}
		return body, ct, nil
	}

	return nil, "", lastErr
}

func truncateBody(b []byte) string {
	const max = 300
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
