package ranking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler expõe os endpoints REST do ranking.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ranking", h.getRanking)
	r.Get("/ranking/estatisticas", h.getResumo)
}

func (h *Handler) getRanking(w http.ResponseWriter, r *http.Request) {
	periodo := r.URL.Query().Get("periodo")
	if periodo == "" {
		periodo = PeriodoGeral
	}
	// Valor desconhecido é rejeitado antes de tocar o banco.
	if !PeriodoValido(periodo) {
		writeError(w, http.StatusBadRequest, "VALIDATION", ErrPeriodoInvalido.Error(), nil)
		return
	}

	entradas, err := h.service.ComputeRanking(r.Context(), periodo)
	if err != nil {
		if errors.Is(err, ErrPeriodoInvalido) {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", "ocorreu um erro interno ao gerar o ranking", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"periodo":                   periodo,
		"ranking":                   entradas,
		"total_usuarios_no_ranking": len(entradas),
	})
}

func (h *Handler) getResumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.service.ComputeResumo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar estatísticas", nil)
		return
	}

	writeJSON(w, http.StatusOK, resumo)
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
