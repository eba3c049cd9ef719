package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	EnvProxyEndpoint = "PROXY_ENDPOINT"
	EnvProxyUsername = "PROXY_USERNAME"
	EnvProxyPassword = "PROXY_PASSWORD"
	EnvUseProxy      = "USE_PROXY"
)

var ErrProxyIncomplete = errors.New("proxy enabled but gateway configuration is incomplete")

// ProxyConfig describes the rotating proxy gateway. It is built once at
// startup from the environment and passed down explicitly; nothing else
// reads proxy settings from the environment.
type ProxyConfig struct {
	Endpoint string
	Username string
	Password string
	Enabled  bool
}

// LoadProxy reads the gateway settings from the process environment.
// When USE_PROXY is enabled, all three gateway fields must be present.
func LoadProxy() (ProxyConfig, error) {
	cfg := ProxyConfig{
		Endpoint: strings.TrimSpace(os.Getenv(EnvProxyEndpoint)),
		Username: strings.TrimSpace(os.Getenv(EnvProxyUsername)),
		Password: strings.TrimSpace(os.Getenv(EnvProxyPassword)),
		Enabled:  ParseBool(os.Getenv(EnvUseProxy)),
	}

	if !cfg.Enabled {
		return cfg, nil
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{EnvProxyEndpoint, cfg.Endpoint},
		{EnvProxyUsername, cfg.Username},
		{EnvProxyPassword, cfg.Password},
	} {
		if field.value == "" {
			return ProxyConfig{}, fmt.Errorf("%w: %s is empty", ErrProxyIncomplete, field.name)
		}
	}

	return cfg, nil
}

// ParseBool accepts any casing of "true"; everything else is false.
func ParseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// URL renders the gateway as a proxy URL with basic auth credentials.
func (p ProxyConfig) URL() string {
	if !p.Enabled {
		return ""
	}
	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(p.Username, p.Password),
		Host:   p.Endpoint,
	}
	return u.String()
}

// Disabled returns a copy with proxy routing turned off.
func (p ProxyConfig) Disabled() ProxyConfig {
	p.Enabled = false
	return p
}
