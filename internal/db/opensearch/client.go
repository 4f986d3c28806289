package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	osgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kailas-cloud/osconnect/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultTimeout = 30 * time.Second

// Config holds connection parameters for an OpenSearch store.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	UseSSL      bool
	VerifyCerts bool
	CACertsPath string
	// Timeout bounds dialing and every call whose context has no deadline.
	Timeout time.Duration
}

// Address returns the base URL of the cluster.
func (c Config) Address() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Store implements db.Store via opensearch-go.
type Store struct {
	client    *osgo.Client
	transport *http.Transport
	timeout   time.Duration
	closed    atomic.Bool
}

// NewStore creates an OpenSearch store. It does not contact the cluster.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	tlsCfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.VerifyCerts, //nolint:gosec // opt-out is an explicit setting
	}
	if cfg.CACertsPath != "" {
		pem, err := os.ReadFile(filepath.Clean(cfg.CACertsPath))
		if err != nil {
			return nil, fmt.Errorf("read ca certs: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertsPath)
		}
		tlsCfg.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	transport.DialContext = (&net.Dialer{Timeout: cfg.Timeout}).DialContext

	client, err := osgo.NewClient(osgo.Config{
		Addresses:    []string{cfg.Address()},
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, transport: transport, timeout: cfg.Timeout}, nil
}

// Ping checks connectivity. A non-2xx answer yields a *db.StatusError.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := opensearchapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: &db.StatusError{Status: res.StatusCode}}
	}
	return nil
}

// Info returns the cluster name and version document.
func (s *Store) Info(ctx context.Context) (map[string]any, error) {
	return s.do(ctx, db.OpInfo, opensearchapi.InfoRequest{})
}

// CreateIndex creates an index with optional settings and mappings.
func (s *Store) CreateIndex(ctx context.Context, name string, body any) (map[string]any, error) {
	r, err := encodeBody(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return s.do(ctx, db.OpCreateIndex, opensearchapi.IndicesCreateRequest{Index: name, Body: r})
}

// DeleteIndex deletes an index.
func (s *Store) DeleteIndex(ctx context.Context, name string) (map[string]any, error) {
	return s.do(ctx, db.OpDeleteIndex, opensearchapi.IndicesDeleteRequest{Index: []string{name}})
}

// Index stores a single document.
func (s *Store) Index(ctx context.Context, index, id string, doc any) (map[string]any, error) {
	r, err := encodeBody(doc)
	if err != nil {
		return nil, &db.Error{Op: db.OpIndex, Err: err}
	}
	return s.do(ctx, db.OpIndex, opensearchapi.IndexRequest{Index: index, DocumentID: id, Body: r})
}

// Get fetches a document by id.
func (s *Store) Get(ctx context.Context, index, id string) (map[string]any, error) {
	return s.do(ctx, db.OpGet, opensearchapi.GetRequest{Index: index, DocumentID: id})
}

// Search runs a query DSL body against index.
func (s *Store) Search(ctx context.Context, index string, body any) (map[string]any, error) {
	r, err := encodeBody(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return s.do(ctx, db.OpSearch, opensearchapi.SearchRequest{Index: []string{index}, Body: r})
}

// Close releases idle connections. Safe to call more than once.
func (s *Store) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.transport.CloseIdleConnections()
	}
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cluster: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, op string, req opensearchapi.Request) (map[string]any, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: op, Err: db.ErrClosed}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, &db.Error{Op: op, Err: statusError(res)}
	}

	out, err := decodeBody(res.Body)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	return out, nil
}

// withTimeout applies the store timeout unless the caller set a deadline.
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func encodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return bytes.NewReader(data), nil
}

func decodeBody(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// statusError extracts type and reason from an error response body.
// The error field is an object on most APIs and a plain string on a few.
func statusError(res *opensearchapi.Response) error {
	se := &db.StatusError{Status: res.StatusCode}
	body, _ := io.ReadAll(res.Body)

	var obj struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &obj); err != nil || len(obj.Error) == 0 {
		return se
	}

	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(obj.Error, &detail); err == nil {
		se.Type, se.Reason = detail.Type, detail.Reason
		return se
	}

	var msg string
	if err := json.Unmarshal(obj.Error, &msg); err == nil {
		se.Type, se.Reason = "error", msg
	}
	return se
}
