package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guardiaotartarugas/api/internal/repo"
	"github.com/guardiaotartarugas/api/internal/service"
)

// ListUsuarios devolve todos os voluntários cadastrados.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.usuarios.ListUsuarios(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar usuários", nil)
		return
	}

	perfis := make([]service.PerfilUsuario, 0, len(usuarios))
	for _, u := range usuarios {
		perfis = append(perfis, service.NewPerfilUsuario(u))
	}

	WriteJSON(w, http.StatusOK, map[string]any{"usuarios": perfis})
}

// UpdateUsuario altera flags de ativo e admin de um voluntário.
func (h *Handler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	alvoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}
	if alvoID == subject {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "você não pode alterar o status de sua própria conta", nil)
		return
	}

	var payload struct {
		Ativo   *bool `json:"ativo"`
		IsAdmin *bool `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if payload.Ativo == nil && payload.IsAdmin == nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nenhum campo para atualizar", nil)
		return
	}

	atualizado, err := h.usuarios.UpdateUsuarioFlags(r.Context(), alvoID, payload.Ativo, payload.IsAdmin)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível atualizar usuário", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Usuário atualizado com sucesso",
		"user":    service.NewPerfilUsuario(atualizado),
	})
}

// DeleteUsuario remove um voluntário e, por cascata, seus ninhos.
func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	alvoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}
	if alvoID == subject {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "não é possível deletar a si mesmo", nil)
		return
	}

	if _, err := h.usuarios.GetUsuarioByID(r.Context(), alvoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar usuário", nil)
		return
	}

	if err := h.usuarios.DeleteUsuario(r.Context(), alvoID); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível deletar usuário", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Usuário deletado com sucesso"})
}
