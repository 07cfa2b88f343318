package mailer

import "context"

// Message representa um e-mail transacional simples em texto puro.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer envia mensagens para canais externos de e-mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
