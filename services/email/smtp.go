package emailsvc

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core"
)

// smtpService delivers mail through a plain SMTP relay (MAIL_* settings).
// Sends run in their own goroutine and use a conservative dial timeout so a
// slow relay never stalls a request.
type smtpService struct {
	conf       core.MailConfig
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) core.EmailService {
	return &smtpService{
		conf:       conf.Mail,
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc *smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(); err != nil {
				svc.logger.Error("rendering email", errors.Wrap(err, "rendering email"))
				return
			}
			if msg.HasRecipients() && msg.HasContent() {
				if err := svc.send(*msg); err != nil {
					svc.logger.Error("sending email", errors.Wrap(err, "sending email"))
				}
			}
		}()
	}
}

func (svc *smtpService) send(msg core.EmailMessage) error {
	addr := fmt.Sprintf("%s:%d", svc.conf.Server, svc.conf.Port)

	conn, err := net.DialTimeout("tcp", addr, svc.conf.SendTimeout)
	if err != nil {
		return errors.Wrap(err, "dialing SMTP server")
	}
	client, err := smtp.NewClient(conn, svc.conf.Server)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "starting SMTP session")
	}
	defer client.Close()

	if svc.conf.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: svc.conf.Server}); err != nil {
				return errors.Wrap(err, "starting TLS")
			}
		}
	}
	if svc.conf.Username != "" {
		auth := smtp.PlainAuth("", svc.conf.Username, svc.conf.Password, svc.conf.Server)
		if err := client.Auth(auth); err != nil {
			return errors.Wrap(err, "authenticating")
		}
	}

	if err := client.Mail(svc.conf.DefaultSender.Address); err != nil {
		return errors.Wrap(err, "MAIL FROM")
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to.Address); err != nil {
			return errors.Wrap(err, "RCPT TO")
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "DATA")
	}
	_, _ = fmt.Fprintf(w, "From: %s\r\n", svc.conf.DefaultSender.String())
	_, _ = fmt.Fprintf(w, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(w, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprint(w, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprint(w, "Content-Type: text/plain; charset=utf-8\r\n")
	_, _ = fmt.Fprint(w, "\r\n")
	_, _ = fmt.Fprint(w, msg.TextContent)
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing DATA")
	}
	return client.Quit()
}
