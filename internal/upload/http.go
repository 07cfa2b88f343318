package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guardiaotartarugas/api/internal/storage"
)

// extensoesPermitidas lista os formatos de imagem aceitos para fotos de ninho.
var extensoesPermitidas = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Handler recebe fotos de ninho via multipart e as envia ao backend de storage.
type Handler struct {
	uploader storage.Uploader
	maxBytes int64
}

func NewHandler(uploader storage.Uploader, maxBytes int64) *Handler {
	return &Handler{uploader: uploader, maxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.uploadFoto)
}

func (h *Handler) uploadFoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "nenhum arquivo selecionado", nil)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "nenhum arquivo selecionado", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extensoesPermitidas[ext] {
		writeError(w, http.StatusBadRequest, "VALIDATION", "tipo de arquivo não permitido", nil)
		return
	}

	body, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "arquivo inválido ou grande demais", nil)
		return
	}

	id := uuid.New()
	key := fmt.Sprintf("%x.%s", id[:], strings.TrimPrefix(ext, "."))

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	res, err := h.uploader.Upload(r.Context(), storage.UploadInput{
		Key:         key,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível salvar o arquivo", nil)
		return
	}

	path := res.Path
	if res.URL != "" {
		path = res.URL
	}
	writeJSON(w, http.StatusOK, map[string]any{"file_path": path})
}

// ServeHandler entrega fotos gravadas em disco (backend local).
type ServeHandler struct {
	local *storage.LocalUploader
}

func NewServeHandler(local *storage.LocalUploader) *ServeHandler {
	return &ServeHandler{local: local}
}

func (h *ServeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/uploads/{nome}", h.serveFoto)
}

func (h *ServeHandler) serveFoto(w http.ResponseWriter, r *http.Request) {
	nome := chi.URLParam(r, "nome")
	f, err := h.local.Open(nome)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "arquivo não encontrado", nil)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível ler o arquivo", nil)
		return
	}

	http.ServeContent(w, r, nome, info.ModTime(), f)
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
