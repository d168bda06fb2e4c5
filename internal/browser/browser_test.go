package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/tripwatch/internal/scan"
)

func TestBudget(t *testing.T) {
	now := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	b := newBudget(now, 30*time.Second)

	assert.Equal(t, 30*time.Second, b.remaining(now))
	assert.Equal(t, float64(30000), b.remainingMillis(now))
	assert.Equal(t, 3*time.Second, b.clamp(now, 3*time.Second))
	assert.False(t, b.expired(now))

	later := now.Add(28 * time.Second)
	assert.Equal(t, 2*time.Second, b.clamp(later, 3*time.Second))

	after := now.Add(31 * time.Second)
	assert.Equal(t, time.Duration(0), b.remaining(after))
	assert.Equal(t, float64(1), b.remainingMillis(after))
	assert.Equal(t, time.Duration(0), b.clamp(after, 3*time.Second))
	assert.True(t, b.expired(after))
	assert.True(t, b.expired(now.Add(30*time.Second)))
}

func TestSettleHonoursContext(t *testing.T) {
	assert.NoError(t, settle(context.Background(), 0))
	assert.NoError(t, settle(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, settle(ctx, time.Hour), context.Canceled)
}

func TestFetchCancelledBeforeNavigation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled fetch never touches the browser, so an empty session will do.
	_, err := (&Session{}).Fetch(ctx, "https://tickets.sar.com.sa/select-trip", 30*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, scan.ErrFetch)
	assert.NotErrorIs(t, err, scan.ErrFatalSession)
}

// TestSessionFetch drives a real Chromium. Set TRIPWATCH_BROWSER_TEST=1 with
// playwright's chromium installed to run it.
func TestSessionFetch(t *testing.T) {
	if os.Getenv("TRIPWATCH_BROWSER_TEST") == "" {
		t.Skip("TRIPWATCH_BROWSER_TEST not set")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="r"></div>
<script>document.getElementById("r").innerText = "There are 2 trips available";</script>
</body></html>`))
	}))
	defer srv.Close()

	s, err := Start(Options{Headless: true, Settle: 200 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	text, err := s.Fetch(context.Background(), srv.URL, 20*time.Second)
	require.NoError(t, err)
	assert.Contains(t, text, "There are 2 trips available")
}
