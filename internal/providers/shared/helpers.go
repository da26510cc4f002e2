// Package shared holds the plumbing all provider adapters use: HTTP client
// construction, base-URL overrides and error-body excerpts.
package shared

import (
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glancelabs/quotaglance/internal/core"
)

const (
	// RequestTimeout bounds every provider call so one hung upstream
	// cannot stall the whole refresh.
	RequestTimeout = 15 * time.Second

	// MaxBodyBytes caps how much of a response body we ever read.
	MaxBodyBytes = 1 << 20

	// MaxErrorExcerpt caps how much of an upstream error body ends up in
	// an error row.
	MaxErrorExcerpt = 180
)

func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: RequestTimeout}
}

// ResolveBaseURL honors a per-credential endpoint override.
func ResolveBaseURL(cred core.Credential, defaultURL string) string {
	if cred.BaseURL != "" {
		return strings.TrimRight(cred.BaseURL, "/")
	}
	return defaultURL
}

// ReadBody drains at most MaxBodyBytes of the response body.
func ReadBody(r io.Reader) []byte {
	body, _ := io.ReadAll(io.LimitReader(r, MaxBodyBytes))
	return body
}

// ErrorExcerpt flattens an upstream error body into a single short line
// suitable for a table cell.
func ErrorExcerpt(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if utf8.RuneCountInString(s) <= MaxErrorExcerpt {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxErrorExcerpt])
}

// FirstNonEmpty returns the first non-empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
