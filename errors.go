package osconnect

import "github.com/kailas-cloud/osconnect/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConnection     = domain.ErrConnection
	ErrAuthentication = domain.ErrAuthentication
	ErrQuery          = domain.ErrQuery
	ErrInvalidDate    = domain.ErrInvalidDate
	ErrInvalidParams  = domain.ErrInvalidParams
)
