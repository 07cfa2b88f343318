package mailer

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/guardiaotartarugas/api/internal/config"
)

// SMTPMailer envia e-mails através de um servidor SMTP com STARTTLS.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer valida a configuração e devolve o mailer pronto.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if !cfg.Enabled() {
		return nil, errors.New("mailer: SMTP_HOST e MAIL_FROM são obrigatórios")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send entrega a mensagem; a conexão é aberta por envio, o volume aqui é baixo.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("mailer: destinatário obrigatório")
	}

	mail := gomail.NewMsg()
	if err := mail.From(m.cfg.From); err != nil {
		return fmt.Errorf("mailer: remetente inválido: %w", err)
	}
	if err := mail.To(msg.To); err != nil {
		return fmt.Errorf("mailer: destinatário inválido: %w", err)
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextPlain, msg.Body)

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, mail); err != nil {
		return fmt.Errorf("mailer: envio falhou: %w", err)
	}
	return nil
}
