/*
Package notify reports scan results by email, or on the console when no mail
delivery is configured or delivery fails.
*/
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shanehull/tripwatch/internal/logger"
	"github.com/shanehull/tripwatch/internal/types"
)

// ErrNotify marks a failed delivery. The result has already been printed to
// the console when it is returned.
var ErrNotify = errors.New("notification delivery failed")

// Renderer turns a scan result into a message.
type Renderer interface {
	Render(result types.ScanResult) (*RenderedMessage, error)
}

type Notifier struct {
	sender   Sender
	renderer Renderer
	console  *ConsoleReporter
	enabled  bool
	to       string
}

// New returns a notifier that emails through SMTP when cfg is enabled and
// prints to out otherwise.
func New(cfg EmailConfig, out io.Writer) *Notifier {
	return NewWithSender(NewEmailSender(cfg), NewHTMLEmailRenderer(), cfg, out)
}

func NewWithSender(sender Sender, renderer Renderer, cfg EmailConfig, out io.Writer) *Notifier {
	return &Notifier{
		sender:   sender,
		renderer: renderer,
		console:  NewConsoleReporter(out),
		enabled:  cfg.Enabled,
		to:       cfg.ToEmail,
	}
}

// Notify sends one message for the whole result. Empty results are only
// printed.
func (n *Notifier) Notify(ctx context.Context, result types.ScanResult) error {
	if len(result.Records) == 0 {
		n.console.Report(result)
		return nil
	}

	if !n.enabled {
		logger.Info(ctx, "email not configured, printing results instead")
		n.console.Report(result)
		return nil
	}

	msg, err := n.renderer.Render(result)
	if err != nil {
		n.console.Report(result)
		return fmt.Errorf("%w: %w", ErrNotify, err)
	}

	logger.Info(ctx, "emailing results", zap.String("to", n.to), zap.String("subject", msg.Subject))
	if err := n.sender.Send(msg); err != nil {
		logger.Error(ctx, "email failed, printing results instead", zap.Error(err))
		n.console.Report(result)
		return fmt.Errorf("%w: %w", ErrNotify, err)
	}

	logger.Info(ctx, "email sent", zap.String("subject", msg.Subject))
	n.console.Delivered(result, n.to)

	return nil
}
