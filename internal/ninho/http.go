package ninho

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/guardiaotartarugas/api/internal/http/middleware"
)

// Handler expõe os endpoints REST de ninhos.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ninhos", h.createNinho)
	r.Get("/ninhos", h.listNinhos)
	r.Get("/estatisticas", h.getEstatisticas)
}

type createNinhoPayload struct {
	Regiao          string   `json:"regiao"`
	QuantidadeOvos  *int     `json:"quantidade_ovos"`
	Status          string   `json:"status"`
	Risco           string   `json:"risco"`
	DiasParaEclosao *int     `json:"dias_para_eclosao"`
	Predadores      bool     `json:"predadores"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	FotoPath        *string  `json:"foto_path"`
}

func (h *Handler) createNinho(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	var payload createNinhoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if payload.QuantidadeOvos == nil || payload.DiasParaEclosao == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "todos os campos são obrigatórios", nil)
		return
	}

	novo, err := h.service.Create(r.Context(), CreateInput{
		Regiao:          payload.Regiao,
		QuantidadeOvos:  *payload.QuantidadeOvos,
		Status:          payload.Status,
		Risco:           payload.Risco,
		DiasParaEclosao: *payload.DiasParaEclosao,
		Predadores:      payload.Predadores,
		Latitude:        payload.Latitude,
		Longitude:       payload.Longitude,
		FotoPath:        payload.FotoPath,
		UsuarioID:       usuarioID,
	})
	if err != nil {
		if errors.Is(err, ErrValidacao) {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível registrar o ninho", nil)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ninho": novo})
}

func (h *Handler) listNinhos(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	ninhos, err := h.service.ListByUsuario(r.Context(), usuarioID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar ninhos", nil)
		return
	}
	if ninhos == nil {
		ninhos = []Ninho{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ninhos": ninhos})
}

func (h *Handler) getEstatisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Estatisticas(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível calcular estatísticas", nil)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func subjectAsUUID(r *http.Request) (uuid.UUID, error) {
	subject := httpmiddleware.GetSubject(r.Context())
	return uuid.Parse(subject)
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
