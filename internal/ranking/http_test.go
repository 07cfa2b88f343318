package ranking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRankingHandlers(t *testing.T) {
	repo := &stubRepo{usuarios: 3, ninhos: 9}
	handler := NewHandler(NewService(repo))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"ranking default geral", "/ranking", http.StatusOK},
		{"ranking geral", "/ranking?periodo=geral", http.StatusOK},
		{"ranking mes", "/ranking?periodo=mes", http.StatusOK},
		{"periodo invalido", "/ranking?periodo=semana", http.StatusBadRequest},
		{"estatisticas", "/ranking/estatisticas", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()

			r := chi.NewRouter()
			handler.RegisterRoutes(r)
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRankingHandlerEnvelope(t *testing.T) {
	handler := NewHandler(NewService(&stubRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/ranking?periodo=invalido", nil)
	rec := httptest.NewRecorder()

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.ServeHTTP(rec, req)

	var body struct {
		Data  any `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == nil || body.Error.Code != "VALIDATION" {
		t.Fatalf("expected VALIDATION error, got %+v", body.Error)
	}
}
