package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
	"github.com/Skotchmaster/sweet_shop/internal/mail"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/mykafka"
)

// Actor is the authenticated caller as seen by the services.
type Actor struct {
	UserID uint
	Role   models.Role
}

func (a Actor) IsStaff() bool { return a.Role.IsStaff() }

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func now(f func() time.Time) time.Time {
	if f != nil {
		return f()
	}
	return time.Now()
}

// publish is fire and forget: the state change already happened, so a
// broker failure is only logged.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("topic", topic).Msg("publish_event_failed")
	}
}

func sendTemplate(ctx context.Context, m mail.Mailer, to, subject, tmpl string, data any) error {
	if m == nil {
		return nil
	}
	body, err := mail.Render(tmpl, data)
	if err != nil {
		return err
	}
	return m.Send(ctx, mail.Message{To: to, Subject: subject, HTML: body})
}
