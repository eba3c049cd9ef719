package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/jimezsa/sakani/internal/config"
)

var ErrRequestFailed = errors.New("request failed")

// StatusError reports a non-2xx answer from the target.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d for %s", e.StatusCode, e.URL)
}

// Blocked reports whether the status indicates rate limiting or a ban.
func (e *StatusError) Blocked() bool {
	return e.StatusCode == fhttp.StatusForbidden || e.StatusCode == fhttp.StatusTooManyRequests
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Client issues JSON requests with a Chrome TLS fingerprint, routed through
// the gateway when proxy usage is enabled. All requests honor the global
// pause limiter and pace themselves with a jittered delay.
type Client struct {
	http    tls_client.HttpClient
	limiter *Limiter
	delay   time.Duration
	proxied bool
	logger  zerolog.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// NewClient builds a client from an immutable proxy configuration.
// speedFactor is the base delay between requests in seconds.
func NewClient(proxy config.ProxyConfig, limiter *Limiter, speedFactor float64, logger zerolog.Logger) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	httpClient, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	if proxy.Enabled {
		if err := httpClient.SetProxy(proxy.URL()); err != nil {
			return nil, fmt.Errorf("set proxy: %w", err)
		}
		logger.Info().Str("gateway", proxy.Endpoint).Msg("proxy enabled")
	} else {
		logger.Info().Msg("proxy disabled")
	}

	return &Client{
		http:    httpClient,
		limiter: limiter,
		delay:   time.Duration(speedFactor * float64(time.Second)),
		proxied: proxy.Enabled,
		logger:  logger,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Proxied reports whether requests go through the gateway.
func (c *Client) Proxied() bool {
	return c.proxied
}

// GetJSON issues a GET and decodes the JSON body. With allowMissing set, a
// 404 yields an empty document instead of an error. 403/429 trigger the
// global pause and fail the request; the caller decides whether to retry.
func (c *Client) GetJSON(ctx context.Context, target string, params url.Values, allowMissing bool) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL, err := buildURL(target, params)
	if err != nil {
		return nil, err
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	c.sleepJitter()

	if allowMissing && resp.StatusCode == fhttp.StatusNotFound {
		return map[string]any{}, nil
	}

	statusErr := &StatusError{URL: target, StatusCode: resp.StatusCode}
	if statusErr.Blocked() {
		c.limiter.TriggerPause(resp.StatusCode, target)
		return nil, statusErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Int("status", resp.StatusCode).Str("url", target).Msg("request failed")
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	return payload, nil
}

// Ping issues a GET and reports the status code without decoding the body.
// Used to validate gateway connectivity; skips pacing and the limiter.
func (c *Client) Ping(ctx context.Context, target string) (int, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) applyHeaders(req *fhttp.Request) {
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}
}

func (c *Client) randomUA() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return userAgents[c.rand.Intn(len(userAgents))]
}

// sleepJitter paces requests around the configured base delay.
func (c *Client) sleepJitter() {
	if c.delay <= 0 {
		return
	}
	c.mu.Lock()
	jitter := time.Duration((c.rand.Float64()*0.04 - 0.02) * float64(time.Second))
	c.mu.Unlock()

	if d := c.delay + jitter; d > 0 {
		time.Sleep(d)
	}
}

func buildURL(target string, params url.Values) (string, error) {
	if len(params) == 0 {
		return target, nil
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
