package ranking

import "github.com/go-chi/chi/v5"

// Mount registra as rotas do módulo de ranking.
func Mount(r chi.Router, handler *Handler) {
	handler.RegisterRoutes(r)
}
