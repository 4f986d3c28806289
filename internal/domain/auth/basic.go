package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/kailas-cloud/osconnect/internal/domain"
)

// Basic is a validated HTTP basic-auth credential pair.
type Basic struct {
	username string
	password string
}

// NewBasic validates and creates a basic-auth credential.
// Both username and password are required.
func NewBasic(username, password string) (Basic, error) {
	if username == "" || password == "" {
		return Basic{}, fmt.Errorf("%w: username and password are required", domain.ErrAuthentication)
	}
	return Basic{username: username, password: password}, nil
}

// Username returns the user name.
func (b Basic) Username() string { return b.username }

// Password returns the password.
func (b Basic) Password() string { return b.password }

// Header returns the Authorization header value.
func (b Basic) Header() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(b.username+":"+b.password))
}
