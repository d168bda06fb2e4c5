package scan

import (
	"context"
	"errors"
	"time"

	"github.com/shanehull/tripwatch/internal/types"
)

var (
	// ErrFetch marks a failed probe for one date. The scan carries on.
	ErrFetch = errors.New("page fetch failed")
	// ErrFatalSession marks a fetch session that cannot be used at all. The
	// run is aborted and nothing is notified.
	ErrFatalSession = errors.New("fetch session unavailable")
)

//go:generate mockgen -package mockscan -source=interface.go -destination=mock/mockscan.go
type Fetcher interface {
	// Fetch returns the visible text of the rendered page at url, giving up
	// once timeout has elapsed.
	Fetch(ctx context.Context, url string, timeout time.Duration) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, result types.ScanResult) error
}

// Annotator adds a free-text digest to a positive page.
type Annotator interface {
	Digest(ctx context.Context, pageText string) ([]string, error)
}
