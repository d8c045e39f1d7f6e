package utils

import (
	"net/url"
	"strings"
)

// LocalRedirectPath returns next when it is a path on this host, otherwise fallback.
// Scheme-relative ("//evil.example") and backslash tricks are rejected.
func LocalRedirectPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") || strings.ContainsAny(next, "\r\n") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
