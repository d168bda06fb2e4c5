package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/tripwatch/internal/classify"
	"github.com/shanehull/tripwatch/internal/config"
)

func TestPrintClassification(t *testing.T) {
	c := classify.New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "negative phrase",
			text: "Sorry, No trips available for the selected date.",
			want: `Unavailable (matched "no trips available")`,
		},
		{
			name: "no signal",
			text: "Welcome to SAR",
			want: "Unavailable (no availability signal)",
		},
		{
			name: "trip count",
			text: "There are 3 trips available on this day",
			want: "Available: 3 trip(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printClassification(&out, c, tt.text))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestClassifyCommandReadsStdin(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Train 76 departs 21:00"))
	cmd.SetArgs([]string{"classify", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Available: train 76")
}

func TestClassifyCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("no seats available"), 0o600))

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"classify", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Unavailable")
}

func TestScanFlagsOverrideConfig(t *testing.T) {
	cmd := scanCommand(&app{})
	require.NoError(t, cmd.ParseFlags([]string{"--smtp-user", "me@example.com", "--fetch-mode", "static", "--headless=false"}))

	cfg := &config.Config{}
	cfg.Email.SMTPServer = "smtp.example.com"
	cfg.Email.SMTPPort = 2525
	cfg.Fetch.Headless = true
	cfg.Fetch.Mode = config.FetchModeBrowser

	f := &scanFlags{smtpUser: "me@example.com", fetchMode: "static"}
	f.apply(cmd, cfg)

	assert.Equal(t, "me@example.com", cfg.Email.User)
	assert.Equal(t, config.FetchModeStatic, cfg.Fetch.Mode)
	assert.False(t, cfg.Fetch.Headless)
	// Unset flags leave the config alone.
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPServer)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
}
