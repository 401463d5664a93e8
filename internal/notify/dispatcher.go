package notify

import (
	"context"
	"time"

	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/pkg/logger"
)

// Config holds dispatcher configuration, read once at process start.
type Config struct {
	From        string        // Sender address
	StaffTo     string        // Fallback recipient for staff notifications
	SendTimeout time.Duration // Bound on each provider call
}

// Dispatcher renders and best-effort sends transactional email.
type Dispatcher struct {
	mailer   Mailer
	cfg      Config
	log      *logger.Logger
	renderer *renderer
}

// NewDispatcher creates a Dispatcher. It fails only on template parse
// errors, which are programming mistakes caught at startup.
func NewDispatcher(mailer Mailer, cfg Config, log *logger.Logger) (*Dispatcher, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
		renderer: r,
	}, nil
}

// Dispatch sends one notification for the event. It returns whether the
// provider accepted the message; failures are logged, never returned as
// errors, and callers must treat a false result as non-fatal.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	to := ev.To
	if to == "" {
		to = d.cfg.StaffTo
	}

	subject, html, text, err := d.renderer.render(ev)
	if err != nil {
		d.log.Error("notification render failed",
			"template", string(ev.Template),
			"ref", ev.Reference,
			"error", err.Error(),
		)
		metrics.RecordNotification(string(ev.Template), false)
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	err = d.mailer.Send(sendCtx, &Message{
		From:    d.cfg.From,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		d.log.Error("notification send failed",
			"template", string(ev.Template),
			"ref", ev.Reference,
			"to", to,
			"error", err.Error(),
		)
		metrics.RecordNotification(string(ev.Template), false)
		return false
	}

	d.log.Debug("notification sent",
		"template", string(ev.Template),
		"ref", ev.Reference,
		"to", to,
	)
	metrics.RecordNotification(string(ev.Template), true)
	return true
}
