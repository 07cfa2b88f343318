package relatorio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guardiaotartarugas/api/internal/ninho"
)

// ListProvider entrega os ninhos com dono usados nos relatórios.
type ListProvider interface {
	ListAllComDono(ctx context.Context) ([]ninho.NinhoComDono, error)
}

// Handler expõe os endpoints de relatório (restritos a admins).
type Handler struct {
	ninhos ListProvider
}

func NewHandler(ninhos ListProvider) *Handler {
	return &Handler{ninhos: ninhos}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/relatorios/ninhos/data", h.getData)
	r.Get("/relatorios/ninhos/export", h.export)
}

func (h *Handler) getData(w http.ResponseWriter, r *http.Request) {
	ninhos, err := h.ninhos.ListAllComDono(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar relatório", nil)
		return
	}
	if ninhos == nil {
		ninhos = []ninho.NinhoComDono{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ninhos": ninhos})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	formato := r.URL.Query().Get("formato")
	if formato == "" {
		formato = FormatoXLSX
	}
	if formato != FormatoXLSX && formato != FormatoCSV {
		writeError(w, http.StatusBadRequest, "VALIDATION", "formato inválido. Use 'xlsx' ou 'csv'", nil)
		return
	}

	ninhos, err := h.ninhos.ListAllComDono(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar relatório", nil)
		return
	}

	var (
		payload     []byte
		contentType string
		filename    string
	)
	switch formato {
	case FormatoCSV:
		payload, err = ExportCSV(ninhos)
		contentType = "text/csv; charset=utf-8"
		filename = "relatorio_ninhos.csv"
	default:
		payload, err = ExportXLSX(ninhos)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "relatorio_ninhos.xlsx"
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar relatório", nil)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
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
