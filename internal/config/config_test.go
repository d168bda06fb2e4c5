package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/tripwatch/internal/config"
)

const sample = `
environment: development
fetch:
  mode: static
  timeout: 10s
scan:
  pacing: 500ms
windows:
  - from: riy
    to: QUR
    fromName: Riyadh
    toName: Qurayyat
    direction: N
    start: "2026-02-03"
    end: "2026-02-05"
    weekdays: [tuesday, 3]
  - from: QUR
    to: RIY
    start: "2026-02-10"
    end: "2026-02-01"
email:
  user: sender@example.com
  password: secret
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SMTP_SERVER", "smtp.example.com")

	cfg, err := config.Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.FetchModeStatic, cfg.Fetch.Mode)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Scan.Pacing)
	assert.Equal(t, 465, cfg.Email.SMTPPort)
	assert.Equal(t, 587, cfg.Email.FallbackPort)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPServer)

	windows, err := cfg.ScanWindows()
	require.NoError(t, err)
	require.Len(t, windows, 2)

	first := windows[0]
	assert.Equal(t, "RIY", first.Route.From)
	assert.Equal(t, "Riyadh to Qurayyat", first.Route.DisplayName())
	assert.Equal(t, "N", first.Route.Direction)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, []int{1, 3}, first.Weekdays)

	// Names fall back to codes and an inverted range is allowed.
	second := windows[1]
	assert.Equal(t, "QUR to RIY", second.Route.DisplayName())
	assert.True(t, second.Start.After(second.End))
	assert.Empty(t, second.Weekdays)

	email := cfg.EmailConfig()
	assert.True(t, email.Enabled)
	assert.Equal(t, "sender@example.com", email.ToEmail)
	assert.Equal(t, "sender@example.com", email.FromEmail)
}

func TestLoadRejectsFetchMode(t *testing.T) {
	_, err := config.Load(writeConfig(t, "fetch:\n  mode: carrier-pigeon\n"))
	assert.Error(t, err)
}

func TestScanWindowsErrors(t *testing.T) {
	tests := []struct {
		name   string
		window config.WindowConfig
	}{
		{
			name:   "missing station",
			window: config.WindowConfig{From: "RIY", Start: "2026-02-03", End: "2026-02-05"},
		},
		{
			name:   "bad start",
			window: config.WindowConfig{From: "RIY", To: "QUR", Start: "03/02/2026", End: "2026-02-05"},
		},
		{
			name:   "bad end",
			window: config.WindowConfig{From: "RIY", To: "QUR", Start: "2026-02-03", End: "2026-02-31"},
		},
		{
			name:   "bad weekday",
			window: config.WindowConfig{From: "RIY", To: "QUR", Start: "2026-02-03", End: "2026-02-05", Weekdays: []string{"funday"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Windows: []config.WindowConfig{tt.window}}
			_, err := cfg.ScanWindows()
			assert.Error(t, err)
		})
	}

	_, err := (&config.Config{}).ScanWindows()
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "Monday", want: 0},
		{in: "tue", want: 1},
		{in: " SUNDAY ", want: 6},
		{in: "4", want: 4},
		{in: "7", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmailConfigDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Email.SMTPServer = "smtp.gmail.com"
	cfg.Email.User = "sender@example.com"

	email := cfg.EmailConfig()
	assert.False(t, email.Enabled)

	cfg.Email.Password = "secret"
	cfg.Email.To = "ops@example.com"
	email = cfg.EmailConfig()
	assert.True(t, email.Enabled)
	assert.Equal(t, "ops@example.com", email.ToEmail)
	assert.Equal(t, "sender@example.com", email.FromEmail)
}
