package storus

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/umputun/storus/lib/storus/kvpb"
)

// kvCall is a request seen by fakeKV.
type kvCall struct {
	method    string
	namespace string
	profile   string
	key       string
	value     string
	requestID string
}

// fakeKV is an in-memory KvService storing whatever it receives.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]map[string]string // namespace/profile -> key -> value
	secrets map[string]bool
	calls   []kvCall
	err     error         // returned by every method if set
	delay   time.Duration // every method waits this long or until the call is canceled
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]map[string]string{}, secrets: map[string]bool{}}
}

func (f *fakeKV) GetService(ctx context.Context, in *kvpb.GetRequest) (*kvpb.StringResponse, error) {
	if err := f.record(ctx, kvCall{method: "get", namespace: in.Namespace, profile: in.Profile, key: in.Key}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[in.Namespace+"/"+in.Profile][in.Key]
	if !ok {
		return nil, status.Error(codes.NotFound, "key missing")
	}
	return &kvpb.StringResponse{Data: val}, nil
}

func (f *fakeKV) SetKeyService(ctx context.Context, in *kvpb.SetKeyRequest) (*kvpb.StringResponse, error) {
	c := kvCall{method: "set", namespace: in.Namespace, profile: in.Profile, key: in.Key, value: in.Value}
	if err := f.record(ctx, c); err != nil {
		return nil, err
	}
	f.put(in, false)
	return &kvpb.StringResponse{Data: "saved " + in.Key}, nil
}

func (f *fakeKV) SetSecretKeyService(ctx context.Context, in *kvpb.SetKeyRequest) (*kvpb.StringResponse, error) {
	c := kvCall{method: "set-secret", namespace: in.Namespace, profile: in.Profile, key: in.Key, value: in.Value}
	if err := f.record(ctx, c); err != nil {
		return nil, err
	}
	f.put(in, true)
	return &kvpb.StringResponse{Data: "saved secret " + in.Key}, nil
}

func (f *fakeKV) DeleteKeyService(ctx context.Context, in *kvpb.DeleteKeyRequest) (*kvpb.StringResponse, error) {
	if err := f.record(ctx, kvCall{method: "delete", namespace: in.Namespace, profile: in.Profile, key: in.Key}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data[in.Namespace+"/"+in.Profile], in.Key)
	return &kvpb.StringResponse{Data: "deleted " + in.Key}, nil
}

func (f *fakeKV) GetServiceByNamespaceAndProfile(ctx context.Context,
	in *kvpb.GetByNamespaceAndProfileRequest) (*kvpb.MapResponse, error) {
	if err := f.record(ctx, kvCall{method: "get-all", namespace: in.Namespace, profile: in.Profile}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := map[string]string{}
	for k, v := range f.data[in.Namespace+"/"+in.Profile] {
		res[k] = v
	}
	return &kvpb.MapResponse{Data: res}, nil
}

func (f *fakeKV) put(in *kvpb.SetKeyRequest, secret bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket := in.Namespace + "/" + in.Profile
	if f.data[bucket] == nil {
		f.data[bucket] = map[string]string{}
	}
	f.data[bucket][in.Key] = in.Value
	f.secrets[bucket+"/"+in.Key] = secret
}

func (f *fakeKV) record(ctx context.Context, c kvCall) error {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDHeader); len(ids) > 0 {
			c.requestID = ids[0]
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	err, delay := f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeKV) isSecret(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secrets[path]
}

func (f *fakeKV) recorded() []kvCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kvCall(nil), f.calls...)
}

// startServer serves srv on a random local tcp port and returns its address.
func startServer(t *testing.T, srv kvpb.KvServiceServer, opts ...grpc.ServerOption) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := grpc.NewServer(append(opts, grpc.ForceServerCodec(kvpb.Codec{}))...)
	kvpb.RegisterKvServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)
	return lis.Addr().String()
}

// bufClient serves srv over an in-memory listener and returns a client connected to it.
func bufClient(t *testing.T, srv kvpb.KvServiceServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ForceServerCodec(kvpb.Codec{}))
	kvpb.RegisterKvServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := FromEndpoint(ctx, "passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// tlsFixture is a self-signed certificate for domain, written to a PEM file.
type tlsFixture struct {
	caFile string
	creds  credentials.TransportCredentials
}

func newTLSFixture(t *testing.T, domain string) tlsFixture {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: domain},
		DNSNames:              []string{domain},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	caFile := filepath.Join(t.TempDir(), "ca_cert.pem")
	require.NoError(t, os.WriteFile(caFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))

	cert := tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
	return tlsFixture{caFile: caFile, creds: credentials.NewServerTLSFromCert(&cert)}
}
