package health

import "context"

// ClusterPinger checks OpenSearch availability.
type ClusterPinger interface {
	Ping(ctx context.Context) error
}
