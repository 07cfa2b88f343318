package contato

import "github.com/go-chi/chi/v5"

// Mount registra as rotas públicas de contato.
func Mount(r chi.Router, handler *Handler) {
	handler.RegisterRoutes(r)
}
