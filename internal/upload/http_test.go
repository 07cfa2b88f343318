package upload

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/guardiaotartarugas/api/internal/storage"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("criar parte: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("escrever parte: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("fechar writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestRouter(t *testing.T, maxBytes int64) (chi.Router, *storage.LocalUploader) {
	t.Helper()

	local, err := storage.NewLocalUploader(t.TempDir())
	if err != nil {
		t.Fatalf("criar uploader: %v", err)
	}

	r := chi.NewRouter()
	NewHandler(local, maxBytes).RegisterRoutes(r)
	NewServeHandler(local).RegisterRoutes(r)
	return r, local
}

func TestUploadFoto(t *testing.T) {
	r, _ := newTestRouter(t, 1<<20)

	req := multipartRequest(t, "file", "ninho.jpg", []byte("conteudo-de-teste"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			FilePath string `json:"file_path"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body.Data.FilePath, "uploads/") || !strings.HasSuffix(body.Data.FilePath, ".jpg") {
		t.Fatalf("file_path inesperado: %q", body.Data.FilePath)
	}

	// o nome gravado é único, não o enviado pelo cliente
	if strings.Contains(body.Data.FilePath, "ninho") {
		t.Fatalf("nome original vazou: %q", body.Data.FilePath)
	}

	// o arquivo salvo volta pelo endpoint público
	nome := strings.TrimPrefix(body.Data.FilePath, "uploads/")
	getReq := httptest.NewRequest(http.MethodGet, "/uploads/"+nome, nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("servir foto: expected 200 got %d", getRec.Code)
	}
	if getRec.Body.String() != "conteudo-de-teste" {
		t.Fatalf("conteúdo servido difere: %q", getRec.Body.String())
	}
}

func TestUploadExtensaoNaoPermitida(t *testing.T) {
	r, _ := newTestRouter(t, 1<<20)

	for _, filename := range []string{"script.exe", "dados.pdf", "semextensao"} {
		req := multipartRequest(t, "file", filename, []byte("x"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", filename, rec.Code)
		}
	}
}

func TestUploadSemArquivo(t *testing.T) {
	r, _ := newTestRouter(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=vazio")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUploadGrandeDemais(t *testing.T) {
	r, _ := newTestRouter(t, 64)

	req := multipartRequest(t, "file", "grande.png", bytes.Repeat([]byte("a"), 1024))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestServirFotoInexistente(t *testing.T) {
	r, _ := newTestRouter(t, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/uploads/nao-existe.jpg", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
