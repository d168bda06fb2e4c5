package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/shanehull/tripwatch/internal/notify"
	"github.com/shanehull/tripwatch/internal/types"
)

const (
	FetchModeBrowser = "browser"
	FetchModeStatic  = "static"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment selects the logger config (development, production)
	Environment string `env:"ENVIRONMENT" env-default:"production" yaml:"environment"`

	// Site addresses the ticket search page
	Site struct {
		BaseURL string `env:"SITE_BASE_URL" env-default:"https://tickets.sar.com.sa/select-trip" yaml:"baseURL"`
		Locale  string `env:"SITE_LOCALE" env-default:"en" yaml:"locale"`
	} `yaml:"site"`

	// Fetch controls how result pages are loaded
	Fetch struct {
		// Mode is either "browser" (headless Chromium) or "static" (plain HTTP)
		Mode string `env:"FETCH_MODE" env-default:"browser" yaml:"mode"`
		// Timeout caps a single page fetch, settle delay included
		Timeout time.Duration `env:"FETCH_TIMEOUT" env-default:"30s" yaml:"timeout"`
		// Settle is the extra wait after network idle for dynamic content
		Settle    time.Duration `env:"FETCH_SETTLE" env-default:"3s" yaml:"settle"`
		Headless  bool          `env:"FETCH_HEADLESS" env-default:"true" yaml:"headless"`
		UserAgent string        `env:"FETCH_USER_AGENT" yaml:"userAgent"`
	} `yaml:"fetch"`

	Scan struct {
		// Pacing is the pause between consecutive fetches
		Pacing time.Duration `env:"SCAN_PACING" env-default:"2s" yaml:"pacing"`
	} `yaml:"scan"`

	// Windows lists the routes and date ranges to scan, in order
	Windows []WindowConfig `yaml:"windows"`

	Email struct {
		SMTPServer   string `env:"SMTP_SERVER" env-default:"smtp.gmail.com" yaml:"smtpServer"`
		SMTPPort     int    `env:"SMTP_PORT" env-default:"465" yaml:"smtpPort"`
		FallbackPort int    `env:"SMTP_FALLBACK_PORT" env-default:"587" yaml:"fallbackPort"`
		User         string `env:"SENDER_EMAIL" yaml:"user"`
		Password     string `env:"SENDER_PASSWORD" yaml:"password"`
		To           string `env:"NOTIFY_EMAIL" yaml:"to"`
		From         string `env:"FROM_EMAIL" yaml:"from"`
	} `yaml:"email"`

	AI struct {
		GeminiAPIKey string `env:"GEMINI_API_KEY" yaml:"geminiAPIKey"`
		Model        string `env:"GEMINI_MODEL" env-default:"gemini-2.5-flash" yaml:"model"`
	} `yaml:"ai"`

	Metrics struct {
		PushgatewayURL string `env:"PUSHGATEWAY_URL" yaml:"pushgatewayURL"`
		Job            string `env:"METRICS_JOB" env-default:"tripwatch" yaml:"job"`
	} `yaml:"metrics"`
}

// WindowConfig is one scan window as written in the config file.
type WindowConfig struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	FromName  string `yaml:"fromName"`
	ToName    string `yaml:"toName"`
	Direction string `yaml:"direction"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	// Weekdays holds day names ("tuesday", "tue") or ordinals with Monday=0
	Weekdays []string `yaml:"weekdays"`
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	switch cfg.Fetch.Mode {
	case FetchModeBrowser, FetchModeStatic:
	default:
		return nil, fmt.Errorf("invalid fetch mode %q: want %q or %q", cfg.Fetch.Mode, FetchModeBrowser, FetchModeStatic)
	}

	return &cfg, nil
}

// ScanWindows validates the configured windows and converts them to scan windows.
func (c *Config) ScanWindows() ([]types.ScanWindow, error) {
	if len(c.Windows) == 0 {
		return nil, errors.New("no scan windows configured")
	}

	out := make([]types.ScanWindow, 0, len(c.Windows))
	for i, w := range c.Windows {
		sw, err := w.scanWindow()
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		out = append(out, sw)
	}
	return out, nil
}

func (w WindowConfig) scanWindow() (types.ScanWindow, error) {
	from := strings.ToUpper(strings.TrimSpace(w.From))
	to := strings.ToUpper(strings.TrimSpace(w.To))
	if from == "" || to == "" {
		return types.ScanWindow{}, errors.New("from and to station codes are required")
	}

	start, err := time.Parse(types.DateLayout, strings.TrimSpace(w.Start))
	if err != nil {
		return types.ScanWindow{}, fmt.Errorf("invalid start date %q: %w", w.Start, err)
	}
	end, err := time.Parse(types.DateLayout, strings.TrimSpace(w.End))
	if err != nil {
		return types.ScanWindow{}, fmt.Errorf("invalid end date %q: %w", w.End, err)
	}

	weekdays := make([]int, 0, len(w.Weekdays))
	for _, s := range w.Weekdays {
		wd, err := ParseWeekday(s)
		if err != nil {
			return types.ScanWindow{}, err
		}
		weekdays = append(weekdays, wd)
	}

	route := types.RouteSpec{
		From:      from,
		To:        to,
		FromName:  orDefault(w.FromName, from),
		ToName:    orDefault(w.ToName, to),
		Direction: strings.TrimSpace(w.Direction),
	}

	return types.ScanWindow{
		Route:    route,
		Start:    start,
		End:      end,
		Weekdays: weekdays,
	}, nil
}

var weekdayNames = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1, "tues": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3, "thurs": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// ParseWeekday accepts a day name or abbreviation, or an ordinal 0-6 with
// Monday=0.
func ParseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return n, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// EmailConfig builds the notifier's SMTP settings. Delivery is enabled only
// when a server, credentials and a recipient are all present.
func (c *Config) EmailConfig() notify.EmailConfig {
	to := orDefault(c.Email.To, c.Email.User)
	from := orDefault(c.Email.From, c.Email.User)

	return notify.EmailConfig{
		SMTPServer:   c.Email.SMTPServer,
		SMTPPort:     c.Email.SMTPPort,
		FallbackPort: c.Email.FallbackPort,
		SMTPUser:     c.Email.User,
		SMTPPass:     c.Email.Password,
		FromEmail:    from,
		ToEmail:      to,
		Enabled:      c.Email.SMTPServer != "" && c.Email.User != "" && c.Email.Password != "" && to != "",
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
