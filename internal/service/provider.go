package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shegergsm/lookup-gateway/internal/errors"
)

const (
	providerUserAgent = "LookupGateway/1.0"
	maxResponseBytes  = 1 << 20
)

// postPreferringHosts lists provider hosts that expect POST requests.
// Everything else is tried with GET first.
var postPreferringHosts = map[string]bool{
	"imei.info":     true,
	"imeicheck.net": true,
}

// ProviderResponse is the raw result of an upstream provider call.
// Body is nil when the response was not valid JSON; Raw always holds
// the response text.
type ProviderResponse struct {
	StatusCode int
	Body       any
	Raw        string
}

// ProviderCaller abstracts the upstream HTTP call so the orchestrator
// can be tested without a live provider.
type ProviderCaller interface {
	Call(ctx context.Context, endpoint string, secret *string, deviceIdentifier string) (*ProviderResponse, error)
}

type ProviderGateway struct {
	client *http.Client
}

func NewProviderGateway(timeout time.Duration) *ProviderGateway {
	return &ProviderGateway{
		client: &http.Client{Timeout: timeout},
	}
}

// NewProviderGatewayWithClient is used by tests to inject a client
// pointed at a local server.
func NewProviderGatewayWithClient(client *http.Client) *ProviderGateway {
	return &ProviderGateway{client: client}
}

// Call performs the provider request. The initial HTTP method is picked
// by host. If the provider answers 405 Method Not Allowed, the request
// is retried exactly once with the opposite method.
func (g *ProviderGateway) Call(ctx context.Context, endpoint string, secret *string, deviceIdentifier string) (*ProviderResponse, error) {
	method := preferredMethod(endpoint)

	resp, err := g.doRequest(ctx, method, endpoint, secret, deviceIdentifier)
	if err != nil {
		return nil, apperrors.ProviderUnreachable(err)
	}

	if resp.StatusCode == http.StatusMethodNotAllowed {
		swapped := swapMethod(method)
		log.Debug().
			Str("endpoint", endpoint).
			Str("method", swapped).
			Msg("provider rejected method, retrying with the other one")
		resp, err = g.doRequest(ctx, swapped, endpoint, secret, deviceIdentifier)
		if err != nil {
			return nil, apperrors.ProviderUnreachable(err)
		}
	}

	return resp, nil
}

func (g *ProviderGateway) doRequest(ctx context.Context, method, endpoint string, secret *string, deviceIdentifier string) (*ProviderResponse, error) {
	req, err := buildRequest(ctx, method, endpoint, secret, deviceIdentifier)
	if err != nil {
		return nil, err
	}

	httpResp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	resp := &ProviderResponse{
		StatusCode: httpResp.StatusCode,
		Raw:        string(raw),
	}

	var body any
	if err := json.Unmarshal(raw, &body); err == nil {
		resp.Body = body
	}

	return resp, nil
}

func buildRequest(ctx context.Context, method, endpoint string, secret *string, deviceIdentifier string) (*http.Request, error) {
	params := map[string]string{"imei": deviceIdentifier}
	if secret != nil && *secret != "" {
		// Providers disagree on the credential parameter name, so the
		// key is sent under every name seen in the wild.
		params["apikey"] = *secret
		params["key"] = *secret
		params["token"] = *secret
	}

	var req *http.Request
	var err error

	if method == http.MethodPost {
		payload, merr := json.Marshal(params)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("User-Agent", providerUserAgent)
	req.Header.Set("Accept", "application/json")
	if secret != nil && *secret != "" {
		req.Header.Set("Authorization", "Bearer "+*secret)
		req.Header.Set("key", *secret)
	}

	return req, nil
}

func preferredMethod(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return http.MethodGet
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if postPreferringHosts[host] {
		return http.MethodPost
	}
	return http.MethodGet
}

func swapMethod(method string) string {
	if method == http.MethodPost {
		return http.MethodGet
	}
	return http.MethodPost
}
