package storus

import (
	"fmt"
	"strings"
	"time"
)

// defaults for connection configuration
const (
	defaultConnectTimeout  = 10 * time.Second
	defaultResponseTimeout = 30 * time.Second
)

// Config holds everything needed to connect to stoo. It is a plain value:
// every With* setter returns an updated copy and leaves the receiver untouched,
// so a Config can be shared between clients safely.
type Config struct {
	url              string
	connectTimeout   time.Duration
	responseTimeout  time.Duration
	defaultNamespace string
	defaultProfile   string
	domain           string
	caCertificate    string
}

// FromURL creates a Config for the given gRPC endpoint, e.g. https://localhost:50051.
// An https scheme enables TLS, anything else connects in plain text.
func FromURL(url string) Config {
	return Config{
		url:             url,
		connectTimeout:  defaultConnectTimeout,
		responseTimeout: defaultResponseTimeout,
	}
}

// WithConnectTimeout sets the maximum time to establish the connection.
func (c Config) WithConnectTimeout(d time.Duration) Config {
	c.connectTimeout = d
	return c
}

// WithResponseTimeout sets the maximum time to wait for a response on every call.
func (c Config) WithResponseTimeout(d time.Duration) Config {
	c.responseTimeout = d
	return c
}

// WithDefaultNamespace sets the namespace used by the *Default methods.
func (c Config) WithDefaultNamespace(namespace string) Config {
	c.defaultNamespace = namespace
	return c
}

// WithDefaultProfile sets the profile used by the *Default methods.
func (c Config) WithDefaultProfile(profile string) Config {
	c.defaultProfile = profile
	return c
}

// WithDomain sets the server name expected in the server certificate.
// Empty leaves verification to the host part of the URL.
func (c Config) WithDomain(domain string) Config {
	c.domain = domain
	return c
}

// WithCACertificate sets the path of the PEM encoded CA certificate trusted for TLS.
func (c Config) WithCACertificate(path string) Config {
	c.caCertificate = path
	return c
}

// URL returns the configured endpoint.
func (c Config) URL() string { return c.url }

// ConnectTimeout returns the connect timeout.
func (c Config) ConnectTimeout() time.Duration { return c.connectTimeout }

// ResponseTimeout returns the per-call response timeout.
func (c Config) ResponseTimeout() time.Duration { return c.responseTimeout }

// Domain returns the expected TLS server name.
func (c Config) Domain() string { return c.domain }

// CACertificate returns the CA certificate path.
func (c Config) CACertificate() string { return c.caCertificate }

// DefaultNamespace returns the default namespace or ErrDefaultNotSet if none was configured.
func (c Config) DefaultNamespace() (string, error) {
	if c.defaultNamespace == "" {
		return "", fmt.Errorf("default namespace: %w", ErrDefaultNotSet)
	}
	return c.defaultNamespace, nil
}

// DefaultProfile returns the default profile or ErrDefaultNotSet if none was configured.
func (c Config) DefaultProfile() (string, error) {
	if c.defaultProfile == "" {
		return "", fmt.Errorf("default profile: %w", ErrDefaultNotSet)
	}
	return c.defaultProfile, nil
}

// Secure reports whether the endpoint asks for TLS. Only the scheme prefix is checked.
func (c Config) Secure() bool {
	return strings.HasPrefix(c.url, "https")
}

// Target returns the gRPC dial target, the URL without its http(s) scheme and trailing slash.
func (c Config) Target() string {
	target := c.url
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(target, scheme) {
			target = strings.TrimPrefix(target, scheme)
			break
		}
	}
	return strings.TrimSuffix(target, "/")
}

// defaults resolves default namespace and profile, namespace first.
func (c Config) defaults() (namespace, profile string, err error) {
	if namespace, err = c.DefaultNamespace(); err != nil {
		return "", "", err
	}
	if profile, err = c.DefaultProfile(); err != nil {
		return "", "", err
	}
	return namespace, profile, nil
}
