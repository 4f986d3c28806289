// Package endpoint normalizes user-supplied cluster host strings.
package endpoint

import "strings"

// DefaultTLSPort is stripped from hosts because it is implied by TLS.
const DefaultTLSPort = ":443"

// Normalize strips an http(s) scheme, trailing slashes and an explicit :443 suffix.
// Any other input is returned unchanged.
func Normalize(host string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(host, scheme) {
			host = host[len(scheme):]
			break
		}
	}
	host = strings.TrimRight(host, "/")
	return strings.TrimSuffix(host, DefaultTLSPort)
}
