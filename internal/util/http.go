package util

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ppiankov/raychel/internal/model"
)

// NewHTTPClient builds the client every outbound call shares: proxy settings
// from cfg, a per-request timeout, a fixed User-Agent and an OpenTelemetry
// transport (a no-op until a tracer provider is installed).
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			next:      otelhttp.NewTransport(base),
			userAgent: cfg.UserAgent,
		},
	}
}

// userAgentTransport sets User-Agent on requests that do not carry one
type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
// Hosts listed in noProxy (comma separated, suffix match) bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(noProxy)
	return func(req *http.Request) (*url.URL, error) {
		if bypassed(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitNoProxy(noProxy string) []string {
	var out []string
	for _, h := range strings.Split(noProxy, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "*" {
			h = strings.TrimLeft(h, "*.")
		}
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// bypassed matches host against no_proxy entries: "*" matches everything,
// "example.com" matches the host itself and its subdomains.
func bypassed(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, b := range bypass {
		if b == "*" || host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
