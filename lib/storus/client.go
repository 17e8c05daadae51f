package storus

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/umputun/storus/lib/storus/kvpb"
)

// RequestIDHeader is the outgoing metadata key carrying a unique id for every call.
const RequestIDHeader = "x-request-id"

// Client is a stoo KV service client. It holds a single gRPC connection which
// multiplexes concurrent calls, so one Client can be shared between goroutines.
type Client struct {
	kv     kvpb.KvServiceClient
	closer io.Closer // nil if the connection is owned by the caller
	config Config
}

// New connects to the endpoint described by cfg and waits until the connection
// is ready, up to the connect timeout. For https endpoints the CA certificate
// is read from cfg and used as the only trusted root.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL() == "" {
		return nil, errors.New("url is required")
	}

	creds := insecure.NewCredentials()
	if cfg.Secure() {
		tlsCreds, err := tlsCredentials(cfg)
		if err != nil {
			return nil, err
		}
		creds = tlsCreds
	}

	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if cfg.ConnectTimeout() > 0 {
		opts = append(opts, grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           backoff.DefaultConfig,
			MinConnectTimeout: cfg.ConnectTimeout(),
		}))
	}

	conn, err := dial(ctx, cfg.Target(), cfg.ConnectTimeout(), opts...)
	if err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] connected to %s, tls: %v", cfg.Target(), cfg.Secure())
	return &Client{kv: kvpb.NewKvServiceClient(conn), closer: conn, config: cfg}, nil
}

// FromEndpoint connects to a raw gRPC target with caller supplied dial options,
// for setups Config can't express (custom credentials, dialers, interceptors).
// The client has an empty Config, so the *Default methods return ErrDefaultNotSet
// and calls are bounded only by ctx.
func FromEndpoint(ctx context.Context, target string, opts ...grpc.DialOption) (*Client, error) {
	if target == "" {
		return nil, errors.New("target is required")
	}
	conn, err := dial(ctx, target, 0, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{kv: kvpb.NewKvServiceClient(conn), closer: conn}, nil
}

// FromConn wraps an existing connection. The caller keeps ownership of conn,
// Close on such a client is a no-op.
func FromConn(conn grpc.ClientConnInterface) *Client {
	return &Client{kv: kvpb.NewKvServiceClient(conn)}
}

// Config returns a copy of the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Close releases the connection if the client owns it.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Get retrieves the value of key under namespace and profile.
func (c *Client) Get(ctx context.Context, namespace, profile, key string) (string, error) {
	ctx, cancel := c.callContext(ctx, "get")
	defer cancel()
	resp, err := c.kv.GetService(ctx, &kvpb.GetRequest{Namespace: namespace, Profile: profile, Key: key})
	if err != nil {
		return "", fromStatus(err)
	}
	return resp.Data, nil
}

// Set stores value for key under namespace and profile and returns the server confirmation.
func (c *Client) Set(ctx context.Context, namespace, profile, key, value string) (string, error) {
	ctx, cancel := c.callContext(ctx, "set")
	defer cancel()
	req := &kvpb.SetKeyRequest{Namespace: namespace, Profile: profile, Key: key, Value: value}
	resp, err := c.kv.SetKeyService(ctx, req)
	if err != nil {
		return "", fromStatus(err)
	}
	return resp.Data, nil
}

// SetSecret stores value for key as a secret. The server decides how secrets are
// kept; on the client side it differs from Set only by the remote method.
func (c *Client) SetSecret(ctx context.Context, namespace, profile, key, value string) (string, error) {
	ctx, cancel := c.callContext(ctx, "set-secret")
	defer cancel()
	req := &kvpb.SetKeyRequest{Namespace: namespace, Profile: profile, Key: key, Value: value}
	resp, err := c.kv.SetSecretKeyService(ctx, req)
	if err != nil {
		return "", fromStatus(err)
	}
	return resp.Data, nil
}

// Delete removes key from namespace and profile and returns the server confirmation.
func (c *Client) Delete(ctx context.Context, namespace, profile, key string) (string, error) {
	ctx, cancel := c.callContext(ctx, "delete")
	defer cancel()
	resp, err := c.kv.DeleteKeyService(ctx, &kvpb.DeleteKeyRequest{Namespace: namespace, Profile: profile, Key: key})
	if err != nil {
		return "", fromStatus(err)
	}
	return resp.Data, nil
}

// GetAllByNamespaceAndProfile returns every key and value stored under namespace and profile.
// The result is not paginated.
func (c *Client) GetAllByNamespaceAndProfile(ctx context.Context, namespace, profile string) (map[string]string, error) {
	ctx, cancel := c.callContext(ctx, "get-all")
	defer cancel()
	req := &kvpb.GetByNamespaceAndProfileRequest{Namespace: namespace, Profile: profile}
	resp, err := c.kv.GetServiceByNamespaceAndProfile(ctx, req)
	if err != nil {
		return nil, fromStatus(err)
	}
	if resp.Data == nil {
		return map[string]string{}, nil
	}
	return resp.Data, nil
}

// GetDefault is Get with the default namespace and profile.
func (c *Client) GetDefault(ctx context.Context, key string) (string, error) {
	namespace, profile, err := c.config.defaults()
	if err != nil {
		return "", err
	}
	return c.Get(ctx, namespace, profile, key)
}

// SetDefault is Set with the default namespace and profile.
func (c *Client) SetDefault(ctx context.Context, key, value string) (string, error) {
	namespace, profile, err := c.config.defaults()
	if err != nil {
		return "", err
	}
	return c.Set(ctx, namespace, profile, key, value)
}

// SetSecretDefault is SetSecret with the default namespace and profile.
func (c *Client) SetSecretDefault(ctx context.Context, key, value string) (string, error) {
	namespace, profile, err := c.config.defaults()
	if err != nil {
		return "", err
	}
	return c.SetSecret(ctx, namespace, profile, key, value)
}

// DeleteDefault is Delete with the default namespace and profile.
func (c *Client) DeleteDefault(ctx context.Context, key string) (string, error) {
	namespace, profile, err := c.config.defaults()
	if err != nil {
		return "", err
	}
	return c.Delete(ctx, namespace, profile, key)
}

// GetAllByDefaultNamespaceAndProfile is GetAllByNamespaceAndProfile with the default namespace and profile.
func (c *Client) GetAllByDefaultNamespaceAndProfile(ctx context.Context) (map[string]string, error) {
	namespace, profile, err := c.config.defaults()
	if err != nil {
		return nil, err
	}
	return c.GetAllByNamespaceAndProfile(ctx, namespace, profile)
}

// callContext bounds ctx by the response timeout and tags the call with a request id.
func (c *Client) callContext(ctx context.Context, op string) (context.Context, context.CancelFunc) {
	reqID := uuid.NewString()
	log.Printf("[DEBUG] %s request %s", op, reqID)
	ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, reqID)
	if c.config.ResponseTimeout() > 0 {
		return context.WithTimeout(ctx, c.config.ResponseTimeout())
	}
	return context.WithCancel(ctx)
}

// tlsCredentials builds TLS credentials trusting only the configured CA certificate.
func tlsCredentials(cfg Config) (credentials.TransportCredentials, error) {
	pem, err := os.ReadFile(cfg.CACertificate())
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no valid certificate in %s", cfg.CACertificate())
	}
	tlsCfg := &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	if cfg.Domain() != "" {
		tlsCfg.ServerName = cfg.Domain()
	}
	return credentials.NewTLS(tlsCfg), nil
}

// dial creates a connection to target and blocks until it is ready. A zero timeout
// waits as long as ctx allows. The connection is closed on failure.
func dial(ctx context.Context, target string, timeout time.Duration, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection to %s: %w", target, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return conn, nil
		}
		if !conn.WaitForStateChange(ctx, state) {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to connect to %s, last state %s: %w", target, state, ctx.Err())
		}
	}
}
