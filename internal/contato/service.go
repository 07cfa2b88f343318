package contato

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/util"
)

// ErrCamposObrigatorios indica formulário incompleto.
var ErrCamposObrigatorios = errors.New("todos os campos são obrigatórios")

// ErrEmailInvalido indica e-mail de contato malformado.
var ErrEmailInvalido = errors.New("email inválido")

// Mensagem é o formulário de contato enviado pelo app.
type Mensagem struct {
	Nome     string
	Email    string
	Conteudo string
}

// Service encaminha mensagens de contato por e-mail para a equipe.
type Service struct {
	mail         mailer.Mailer
	destinatario string
}

func NewService(mail mailer.Mailer, destinatario string) *Service {
	return &Service{mail: mail, destinatario: destinatario}
}

func (s *Service) Enviar(ctx context.Context, msg Mensagem) error {
	msg.Nome = strings.TrimSpace(msg.Nome)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Conteudo = strings.TrimSpace(msg.Conteudo)

	if msg.Nome == "" || msg.Email == "" || msg.Conteudo == "" {
		return ErrCamposObrigatorios
	}
	if err := util.ValidateEmail(msg.Email); err != nil {
		return ErrEmailInvalido
	}

	corpo := fmt.Sprintf(`Você recebeu uma nova mensagem de contato através do sistema Guardião das Tartaruguinhas.

Nome: %s
E-mail de Contato: %s

Mensagem:
--------------------------------------------------
%s
--------------------------------------------------
`, msg.Nome, msg.Email, msg.Conteudo)

	return s.mail.Send(ctx, mailer.Message{
		To:      s.destinatario,
		Subject: fmt.Sprintf("Novo Contato do App Guardião: %s", msg.Nome),
		Body:    corpo,
	})
}
