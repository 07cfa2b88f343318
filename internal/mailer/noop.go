package mailer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// NoopMailer apenas registra a mensagem, usado quando SMTP não está configurado.
type NoopMailer struct{}

// Send descarta a mensagem com um log de aviso.
func (NoopMailer) Send(ctx context.Context, msg Message) error {
	log.Warn().Str("to", msg.To).Str("subject", msg.Subject).
		Msg("mailer não configurado, mensagem descartada")
	return nil
}
