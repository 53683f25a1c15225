// internal/notify/notify.go
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/silversky/partnersms-backend/internal/config"
	"github.com/silversky/partnersms-backend/internal/sms"
)

// Notifier relays inbound-reply alerts to the operator by email and an
// SMS copy. Both channels are best effort: failures are logged and
// swallowed, never propagated.
type Notifier struct {
	Cfg       config.Config
	Transport sms.Transport
	Log       *zap.Logger
}

// Notify sends the reply summary through every configured channel.
func (n *Notifier) Notify(ctx context.Context, partnerName, body string) {
	if n.Cfg.NotificationEmail != "" && n.Cfg.SMTPUser != "" && n.Cfg.SMTPPassword != "" {
		if err := n.sendEmail(partnerName, body); err != nil {
			n.Log.Warn("email notification failed", zap.Error(err))
		}
	}

	if n.Cfg.NotificationSMS != "" && n.Transport != nil {
		preview := body
		if len(preview) > 100 {
			preview = preview[:100]
		}
		_, err := n.Transport.Send(ctx, sms.SMS{
			To:   n.Cfg.NotificationSMS,
			Body: fmt.Sprintf("Reply from %s: %s", partnerName, preview),
		})
		if err != nil {
			n.Log.Warn("sms notification failed", zap.Error(err))
		}
	}
}

func (n *Notifier) sendEmail(partnerName, body string) error {
	headers := map[string]string{
		"From":         n.Cfg.SMTPUser,
		"To":           n.Cfg.NotificationEmail,
		"Subject":      "SMS Reply from " + partnerName,
		"MIME-Version": "1.0",
		"Content-Type": `text/plain; charset="UTF-8"`,
	}

	var msg strings.Builder
	for k, v := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, v)
	}
	fmt.Fprintf(&msg, "\r\nReply from %s:\n\n%s\n\nOpen app to respond.", partnerName, body)

	addr := fmt.Sprintf("%s:%d", n.Cfg.SMTPHost, n.Cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.Cfg.SMTPUser, n.Cfg.SMTPPassword, n.Cfg.SMTPHost)
	return smtp.SendMail(addr, auth, n.Cfg.SMTPUser, []string{n.Cfg.NotificationEmail}, []byte(msg.String()))
}
