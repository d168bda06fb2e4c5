package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shanehull/tripwatch/internal/types"
)

// RenderedMessage is a ready-to-send notification.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// HTMLEmailRenderer renders notifications as HTML emails with a plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Funcs(template.FuncMap{
		"day": func(r types.AvailabilityRecord) string { return r.Date.Format(types.DateLayout) },
	}).Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces an HTML email with plain text alternative.
func (r *HTMLEmailRenderer) Render(result types.ScanResult) (*RenderedMessage, error) {
	subject := fmt.Sprintf("SAR Tickets Available! (%d trips found)", len(result.Records))

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, result); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(result),
		HTML:    htmlBuf.String(),
	}, nil
}

// renderPlainText produces a readable plain text version for email clients that don't support HTML.
func renderPlainText(result types.ScanResult) string {
	var sb strings.Builder

	sb.WriteString("SAR Train Tickets Available!\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, rec := range result.Records {
		sb.WriteString(fmt.Sprintf("Route: %s\n", rec.Route))
		sb.WriteString(fmt.Sprintf("Date: %s (%s)\n", rec.Date.Format(types.DateLayout), rec.Weekday))
		sb.WriteString(fmt.Sprintf("Reason: %s\n", rec.Reason))
		if rec.Evidence != "" {
			sb.WriteString(fmt.Sprintf("Details: %s\n", rec.Evidence))
		}
		sb.WriteString(fmt.Sprintf("Link: %s\n", rec.URL))
		for _, d := range rec.Digest {
			sb.WriteString(fmt.Sprintf("• %s\n", d))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Book quickly as tickets may sell out!\n")

	return sb.String()
}
