// Package auth provides credential extraction and API key utilities.
package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractBearer pulls a bearer credential from the Authorization
// header. The second return value reports presence; absence is not an
// error at this layer - whether it is fatal belongs to the caller.
func ExtractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	credential := strings.TrimPrefix(header, bearerPrefix)
	if credential == "" {
		return "", false
	}

	return credential, true
}
