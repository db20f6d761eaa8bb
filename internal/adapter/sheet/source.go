package sheet

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Source fetches the raw sheet document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Kind() string
}

// NewSource picks the transport for addr: plain http(s) URLs use HTTPSource
// and everything else goes through go-getter. A go-getter forced prefix such
// as "s3::https://..." is never treated as plain HTTP.
func NewSource(addr string, timeout time.Duration, logger *slog.Logger) Source {
	if !strings.Contains(addr, "::") {
		if u, err := url.Parse(addr); err == nil && (u.Scheme == "http" || u.Scheme == "https") && !hasGetterQuery(u) {
			return NewHTTPSource(addr, timeout, logger)
		}
	}
	return NewGetterSource(addr, timeout, logger)
}

// hasGetterQuery reports whether u carries go-getter options like checksum.
func hasGetterQuery(u *url.URL) bool {
	_, ok := u.Query()["checksum"]
	return ok
}
