package contato

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler expõe o endpoint público de contato.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contato", h.enviarContato)
}

type contatoPayload struct {
	Nome     string `json:"name"`
	Email    string `json:"email"`
	Mensagem string `json:"message"`
}

func (h *Handler) enviarContato(w http.ResponseWriter, r *http.Request) {
	var payload contatoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	err := h.service.Enviar(r.Context(), Mensagem{
		Nome:     payload.Nome,
		Email:    payload.Email,
		Conteudo: payload.Mensagem,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Mensagem enviada com sucesso! Obrigado pelo contato.",
		})
	case errors.Is(err, ErrCamposObrigatorios), errors.Is(err, ErrEmailInvalido):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "ocorreu um erro ao tentar enviar a mensagem", nil)
	}
}

type successEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

type errorEnvelope struct {
	Data  any        `json:"data"`
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Data: nil,
		Error: &errorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
