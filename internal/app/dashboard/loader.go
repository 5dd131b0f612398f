// Package dashboard loads the data a server-side render of the dashboard needs.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/okian/speedcheck-web/internal/adapters/upstream"
	"github.com/okian/speedcheck-web/pkg/logger"
	"github.com/okian/speedcheck-web/pkg/metrics"
)

const outcomeOK = "ok"

// Fetcher returns a JSON body or a *upstream.FetchError.
type Fetcher interface {
	GetJSON(ctx context.Context, path string) (json.RawMessage, error)
}

// Loader produces a Page per render. It keeps no state between calls.
type Loader struct {
	fetcher Fetcher
	log     logger.Logger
}

// NewLoader creates a Loader reading through fetcher.
func NewLoader(fetcher Fetcher, log logger.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: log}
}

// Load fetches the dashboard once. It never fails: any transport, status or
// decode error is logged and the page gets the empty placeholder instead.
func (l *Loader) Load(ctx context.Context) Page {
	raw, err := l.fetcher.GetJSON(ctx, Path)
	if err != nil {
		kind := upstream.KindOf(err)
		if kind == "" {
			kind = upstream.KindTransport
		}
		l.log.Error(ctx, "failed to fetch dashboard data during SSR",
			logger.String("kind", string(kind)), logger.Error(err))
		metrics.RecordDashboardLoad(string(kind))
		metrics.RecordDashboardFallback()
		return Page{DashboardData: FallbackJSON(), Fallback: true}
	}

	l.log.Info(ctx, "SSR dashboard data", logger.String("payload", indent(raw)))
	metrics.RecordDashboardLoad(outcomeOK)
	return Page{DashboardData: raw}
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
