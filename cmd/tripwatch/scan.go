package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanehull/tripwatch/internal/ai"
	"github.com/shanehull/tripwatch/internal/browser"
	"github.com/shanehull/tripwatch/internal/config"
	"github.com/shanehull/tripwatch/internal/logger"
	"github.com/shanehull/tripwatch/internal/metrics"
	"github.com/shanehull/tripwatch/internal/notify"
	"github.com/shanehull/tripwatch/internal/sar"
	"github.com/shanehull/tripwatch/internal/scan"
	"github.com/shanehull/tripwatch/internal/static"
)

const timestampLayout = "2006-01-02T15:04:05"

type scanFlags struct {
	smtpServer string
	smtpPort   int
	smtpUser   string
	smtpPass   string
	toEmail    string
	fromEmail  string
	headless   bool
	fetchMode  string
}

// apply overrides the loaded config with any flag set on the command line.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("smtp-server") {
		cfg.Email.SMTPServer = f.smtpServer
	}
	if changed("smtp-port") {
		cfg.Email.SMTPPort = f.smtpPort
	}
	if changed("smtp-user") {
		cfg.Email.User = f.smtpUser
	}
	if changed("smtp-pass") {
		cfg.Email.Password = f.smtpPass
	}
	if changed("to-email") {
		cfg.Email.To = f.toEmail
	}
	if changed("from-email") {
		cfg.Email.From = f.fromEmail
	}
	if changed("headless") {
		cfg.Fetch.Headless = f.headless
	}
	if changed("fetch-mode") {
		cfg.Fetch.Mode = f.fetchMode
	}
}

func scanCommand(a *app) *cobra.Command {
	f := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scans every configured window once and reports bookable dates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, a.cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runScan(ctx, a.cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.smtpServer, "smtp-server", "smtp.gmail.com", "SMTP server address")
	flags.IntVar(&f.smtpPort, "smtp-port", 465, "SMTP server port")
	flags.StringVar(&f.smtpUser, "smtp-user", "", "SMTP username (email address)")
	flags.StringVar(&f.smtpPass, "smtp-pass", "", "SMTP password or App Password")
	flags.StringVar(&f.toEmail, "to-email", "", "Recipient email address (default: smtp-user)")
	flags.StringVar(&f.fromEmail, "from-email", "", "Sender email address (default: smtp-user)")
	flags.BoolVar(&f.headless, "headless", true, "Run the browser without a window")
	flags.StringVar(&f.fetchMode, "fetch-mode", config.FetchModeBrowser, "How pages are loaded: browser or static")

	return cmd
}

func runScan(ctx context.Context, cfg *config.Config) error {
	ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))

	windows, err := cfg.ScanWindows()
	if err != nil {
		return fmt.Errorf("invalid scan windows: %w", err)
	}

	fetcher, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		logger.Error(ctx, "could not start page fetcher", zap.Error(err))
		return err
	}
	defer closeFetcher()

	m := metrics.New()
	opts := scan.Options{
		FetchTimeout: cfg.Fetch.Timeout,
		Pacing:       cfg.Scan.Pacing,
		Queries:      sar.NewQueryBuilder(cfg.Site.BaseURL, cfg.Site.Locale),
		Metrics:      m,
	}
	if cfg.AI.GeminiAPIKey != "" {
		digester, err := ai.New(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			logger.Warn(ctx, "AI digest disabled", zap.Error(err))
		} else {
			opts.Annotator = digester
		}
	}

	started := time.Now()
	fmt.Printf("Starting SAR ticket scan at %s (%d window(s), fetch mode: %s)\n",
		started.Format(timestampLayout), len(windows), cfg.Fetch.Mode)

	result, err := scan.New(fetcher, opts).Run(ctx, windows)
	if err != nil {
		logger.Error(ctx, "scan aborted, nothing will be notified", zap.Error(err))
		return err
	}

	var notifier scan.Notifier = notify.New(cfg.EmailConfig(), os.Stdout)
	if err := notifier.Notify(ctx, result); err != nil {
		if !errors.Is(err, notify.ErrNotify) {
			return err
		}
		logger.Error(ctx, "could not deliver notification", zap.Error(err))
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := m.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn(ctx, "could not push metrics", zap.Error(err))
	}

	return nil
}

// newFetcher returns the configured page fetcher and a function releasing it.
func newFetcher(cfg *config.Config) (scan.Fetcher, func(), error) {
	switch cfg.Fetch.Mode {
	case config.FetchModeStatic:
		return static.New(cfg.Fetch.UserAgent), func() {}, nil
	case config.FetchModeBrowser:
		session, err := browser.Start(browser.Options{
			Headless:  cfg.Fetch.Headless,
			UserAgent: cfg.Fetch.UserAgent,
			Settle:    cfg.Fetch.Settle,
		})
		if err != nil {
			return nil, nil, err
		}
		return session, func() {
			if err := session.Close(); err != nil {
				logger.Warn(context.Background(), "could not close browser", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown fetch mode %q", cfg.Fetch.Mode)
	}
}
