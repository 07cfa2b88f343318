package contato

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardiaotartarugas/api/internal/mailer"
)

type stubMailer struct {
	enviadas []mailer.Message
}

func (s *stubMailer) Send(ctx context.Context, msg mailer.Message) error {
	s.enviadas = append(s.enviadas, msg)
	return nil
}

func TestEnviar(t *testing.T) {
	mail := &stubMailer{}
	svc := NewService(mail, "equipe@guardiaotartarugas.org")

	err := svc.Enviar(context.Background(), Mensagem{
		Nome:     "Ana Silva",
		Email:    "ana@example.com",
		Conteudo: "Encontrei um ninho na praia.",
	})
	require.NoError(t, err)
	require.Len(t, mail.enviadas, 1)

	msg := mail.enviadas[0]
	assert.Equal(t, "equipe@guardiaotartarugas.org", msg.To)
	assert.Equal(t, "Novo Contato do App Guardião: Ana Silva", msg.Subject)
	assert.Contains(t, msg.Body, "ana@example.com")
	assert.Contains(t, msg.Body, "Encontrei um ninho na praia.")
}

func TestEnviarCamposObrigatorios(t *testing.T) {
	svc := NewService(&stubMailer{}, "equipe@guardiaotartarugas.org")

	tests := []Mensagem{
		{Email: "ana@example.com", Conteudo: "oi"},
		{Nome: "Ana", Conteudo: "oi"},
		{Nome: "Ana", Email: "ana@example.com"},
		{Nome: "  ", Email: "ana@example.com", Conteudo: "oi"},
	}

	for _, msg := range tests {
		err := svc.Enviar(context.Background(), msg)
		assert.ErrorIs(t, err, ErrCamposObrigatorios)
	}
}

func TestEnviarEmailInvalido(t *testing.T) {
	svc := NewService(&stubMailer{}, "equipe@guardiaotartarugas.org")

	err := svc.Enviar(context.Background(), Mensagem{
		Nome:     "Ana",
		Email:    "sem-arroba",
		Conteudo: "oi",
	})
	assert.ErrorIs(t, err, ErrEmailInvalido)
}
