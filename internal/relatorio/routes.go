package relatorio

import "github.com/go-chi/chi/v5"

// Mount registra as rotas de relatórios.
func Mount(r chi.Router, handler *Handler) {
	handler.RegisterRoutes(r)
}
