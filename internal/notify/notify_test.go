package notify_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/tripwatch/internal/notify"
	"github.com/shanehull/tripwatch/internal/types"
)

type fakeSender struct {
	sent []*notify.RenderedMessage
	err  error
}

func (f *fakeSender) Send(msg *notify.RenderedMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type failingRenderer struct{}

func (failingRenderer) Render(types.ScanResult) (*notify.RenderedMessage, error) {
	return nil, errors.New("template broke")
}

var enabled = notify.EmailConfig{
	SMTPServer: "smtp.example.com",
	SMTPPort:   465,
	SMTPUser:   "watch@example.com",
	SMTPPass:   "secret",
	FromEmail:  "watch@example.com",
	ToEmail:    "me@example.com",
	Enabled:    true,
}

func sampleResult() types.ScanResult {
	d := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	return types.ScanResult{
		StartedAt:  d,
		FinishedAt: d.Add(time.Minute),
		Records: []types.AvailabilityRecord{
			{
				Route:    "Riyadh to Qurayyat",
				Date:     d,
				Weekday:  "Tuesday",
				URL:      "https://tickets.sar.com.sa/select-trip?DepartureStation=RIY",
				Reason:   "schedule",
				Evidence: "Departure 21:00 → 07:33 Arrival",
				Digest:   []string{"Two night departures"},
			},
			{
				Route:   "Qurayyat to Riyadh",
				Date:    d.AddDate(0, 0, 20),
				Weekday: "Monday",
				URL:     "https://tickets.sar.com.sa/select-trip?DepartureStation=QUR",
				Reason:  "3 trip(s)",
			},
		},
	}
}

func TestNotifyEmptyResultPrintsNoTickets(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	n := notify.NewWithSender(sender, notify.NewHTMLEmailRenderer(), enabled, &out)

	err := n.Notify(context.Background(), types.ScanResult{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No tickets available at this time")
	assert.Empty(t, sender.sent)
}

func TestNotifyWithoutEmailPrintsTable(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	n := notify.NewWithSender(sender, notify.NewHTMLEmailRenderer(), notify.EmailConfig{}, &out)

	err := n.Notify(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Empty(t, sender.sent)

	s := out.String()
	assert.Contains(t, s, "Found 2 available trip(s)!")
	for _, want := range []string{"2026-03-03", "Tuesday", "Riyadh to Qurayyat", "schedule", "DepartureStation=RIY", "2026-03-23", "3 trip(s)"} {
		assert.Contains(t, s, want)
	}
	assert.Contains(t, s, "Details: Departure 21:00 → 07:33 Arrival")
	assert.Contains(t, s, "- Two night departures")
}

func TestNotifySendsOneEmail(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	n := notify.NewWithSender(sender, notify.NewHTMLEmailRenderer(), enabled, &out)

	err := n.Notify(context.Background(), sampleResult())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "SAR Tickets Available! (2 trips found)", sender.sent[0].Subject)
	assert.Contains(t, out.String(), "Email sent to me@example.com")
}

func TestNotifySendFailureFallsBackToConsole(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{err: errors.New("connection refused")}
	n := notify.NewWithSender(sender, notify.NewHTMLEmailRenderer(), enabled, &out)

	err := n.Notify(context.Background(), sampleResult())
	require.Error(t, err)
	assert.ErrorIs(t, err, notify.ErrNotify)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, out.String(), "Riyadh to Qurayyat")
}

func TestNotifyRenderFailureFallsBackToConsole(t *testing.T) {
	var out bytes.Buffer
	sender := &fakeSender{}
	n := notify.NewWithSender(sender, failingRenderer{}, enabled, &out)

	err := n.Notify(context.Background(), sampleResult())
	assert.ErrorIs(t, err, notify.ErrNotify)
	assert.Empty(t, sender.sent)
	assert.Contains(t, out.String(), "Found 2 available trip(s)!")
}

func TestRender(t *testing.T) {
	msg, err := notify.NewHTMLEmailRenderer().Render(sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "SAR Tickets Available! (2 trips found)", msg.Subject)
	assert.Contains(t, msg.Text, "Route: Riyadh to Qurayyat")
	assert.Contains(t, msg.Text, "Date: 2026-03-03 (Tuesday)")
	assert.Contains(t, msg.Text, "Link: https://tickets.sar.com.sa/select-trip?DepartureStation=QUR")
	assert.Contains(t, msg.Text, "• Two night departures")
	assert.Contains(t, msg.Text, "Details: Departure 21:00 → 07:33 Arrival")
	assert.Equal(t, 1, strings.Count(msg.Text, "Details:"))

	assert.Contains(t, msg.HTML, "<td>Riyadh to Qurayyat</td>")
	assert.Contains(t, msg.HTML, "2026-03-23")
	assert.Contains(t, msg.HTML, "Book Now")
	assert.Contains(t, msg.HTML, "<li>Two night departures</li>")
	assert.Contains(t, msg.HTML, `<div class="evidence">Departure 21:00 → 07:33 Arrival</div>`)
	assert.Equal(t, 1, strings.Count(msg.HTML, `<div class="evidence">`))
	assert.Equal(t, 2, strings.Count(msg.HTML, "Book Now</a>"))
}

func TestEmailSenderDisabledIsNoop(t *testing.T) {
	s := notify.NewEmailSender(notify.EmailConfig{})
	assert.NoError(t, s.Send(&notify.RenderedMessage{Subject: "x", Text: "y"}))
}

func TestEmailSenderTriesFallbackPort(t *testing.T) {
	primary, primaryHits := closingListener(t)
	fallback, fallbackHits := closingListener(t)

	s := notify.NewEmailSender(notify.EmailConfig{
		SMTPServer:   "127.0.0.1",
		SMTPPort:     primary,
		FallbackPort: fallback,
		SMTPUser:     "u",
		SMTPPass:     "p",
		FromEmail:    "from@example.com",
		ToEmail:      "to@example.com",
		Enabled:      true,
	})

	err := s.Send(&notify.RenderedMessage{Subject: "x", Text: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to@example.com")
	assert.Equal(t, 1, <-primaryHits)
	assert.Equal(t, 1, <-fallbackHits)
}

// closingListener accepts one connection and closes it without a greeting.
func closingListener(t *testing.T) (int, <-chan int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	hits := make(chan int, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			hits <- 0
			return
		}
		_ = conn.Close()
		hits <- 1
	}()

	return ln.Addr().(*net.TCPAddr).Port, hits
}
