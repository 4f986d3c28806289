package osconnect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/osconnect/internal/db"
	dbos "github.com/kailas-cloud/osconnect/internal/db/opensearch"
	"github.com/kailas-cloud/osconnect/internal/domain/auth"
	"github.com/kailas-cloud/osconnect/internal/domain/endpoint"
	"github.com/kailas-cloud/osconnect/internal/domain/search/result"
)

// Client is the osconnect entry point. It owns one connection pool.
type Client struct {
	store db.Store
	host  string
	obs   *observer
}

// BulkResult summarizes a BulkIndex call.
type BulkResult struct {
	Indexed int
	Failed  []BulkFailure
}

// BulkFailure describes one document the cluster rejected.
type BulkFailure struct {
	Position int // index into the docs slice
	Status   int
	Type     string
	Reason   string
}

// New creates a Client for the cluster at endpoint. The endpoint may carry a
// scheme, trailing slash or :443 suffix; these are stripped.
// The cluster is only contacted when WithReadinessCheck is given.
func New(ctx context.Context, host, username, password string, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	creds, err := auth.NewBasic(username, password)
	if err != nil {
		return nil, err
	}

	host = endpoint.Normalize(host)
	if host == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrConnection)
	}

	store, err := dbos.NewStore(dbos.Config{
		Host:        host,
		Port:        cfg.port,
		Username:    creds.Username(),
		Password:    creds.Password(),
		UseSSL:      cfg.useSSL,
		VerifyCerts: cfg.verifyCerts,
		CACertsPath: cfg.caCerts,
		Timeout:     cfg.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %w", ErrConnection, err)
	}

	if cfg.readiness > 0 {
		if err := store.WaitForReady(ctx, cfg.readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("%w: cluster not ready: %w", ErrConnection, err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, host, obs), nil
}

func wireClient(store db.Store, host string, obs *observer) *Client {
	return &Client{store: store, host: host, obs: obs}
}

// Host returns the normalized cluster host name.
func (c *Client) Host() string { return c.host }

// Close releases pooled connections. Safe to call more than once and on a
// client that never connected.
func (c *Client) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	c.store.Close()
	return nil
}

// Ping reports whether the cluster answers with a 2xx status.
// Transport failures return ErrConnection.
func (c *Client) Ping(ctx context.Context) (ok bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		var se *db.StatusError
		if errors.As(err, &se) {
			return false, nil
		}
		return false, fmt.Errorf("%w: ping: %w", ErrConnection, err)
	}
	return true, nil
}

// ClusterInfo returns the cluster name and version document.
func (c *Client) ClusterInfo(ctx context.Context) (info map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("cluster_info", start, err) }()

	info, err = c.store.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: cluster info: %w", ErrConnection, err)
	}
	return info, nil
}

// CreateIndex creates an index. body holds optional settings and mappings
// and may be nil.
func (c *Client) CreateIndex(ctx context.Context, name string, body any) (resp map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create_index", start, err) }()

	resp, err = c.store.CreateIndex(ctx, name, body)
	if err != nil {
		return nil, fmt.Errorf("%w: create index %s: %w", ErrQuery, name, err)
	}
	return resp, nil
}

// DeleteIndex deletes an index.
func (c *Client) DeleteIndex(ctx context.Context, name string) (resp map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_index", start, err) }()

	resp, err = c.store.DeleteIndex(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: delete index %s: %w", ErrQuery, name, err)
	}
	return resp, nil
}

// IndexDocument stores doc in index. An empty id lets the cluster assign one.
func (c *Client) IndexDocument(ctx context.Context, index string, doc any, id string) (resp map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_document", start, err) }()

	resp, err = c.store.Index(ctx, index, id, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: index document: %w", ErrQuery, err)
	}
	return resp, nil
}

// GetDocument fetches a document by id. A missing document is an ErrQuery.
func (c *Client) GetDocument(ctx context.Context, index, id string) (resp map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_document", start, err) }()

	resp, err = c.store.Get(ctx, index, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get document %s: %w", ErrQuery, id, err)
	}
	return resp, nil
}

// Search executes a query DSL body against index and returns the raw response.
func (c *Client) Search(ctx context.Context, index string, query any) (resp map[string]any, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err = c.store.Search(ctx, index, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", ErrQuery, err)
	}
	return resp, nil
}

// BulkIndex indexes docs through the bulk API. If any document is rejected
// the result lists the failures and the error wraps ErrQuery.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []map[string]any) (res BulkResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("bulk_index", start, err) }()

	stats, err := c.store.Bulk(ctx, index, docs)
	if err != nil {
		return BulkResult{}, fmt.Errorf("%w: bulk index: %w", ErrQuery, err)
	}

	res = BulkResult{Indexed: int(stats.Indexed)} //nolint:gosec // bounded by len(docs)
	for _, f := range stats.Failed {
		res.Failed = append(res.Failed, BulkFailure(f))
	}
	if len(res.Failed) > 0 {
		first := res.Failed[0]
		return res, fmt.Errorf("%w: bulk index: %d of %d documents failed, first at position %d: %s",
			ErrQuery, len(res.Failed), len(docs), first.Position, first.Reason)
	}
	return res, nil
}

// TotalHits returns hits.total of a Search response. Both the integer and the
// {"value": n} shape are understood.
func TotalHits(resp map[string]any) int {
	hits, _ := resp["hits"].(map[string]any)
	return result.TotalHits(hits["total"])
}
