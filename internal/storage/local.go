package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalUploader grava as fotos em disco, abaixo de um diretório base.
// O caminho retornado é relativo ("uploads/<key>") para ser servido pela API.
type LocalUploader struct {
	baseDir string
}

// NewLocalUploader cria o diretório base caso ainda não exista.
func NewLocalUploader(baseDir string) (*LocalUploader, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage: diretório de upload vazio")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: criar diretório %s: %w", baseDir, err)
	}
	return &LocalUploader{baseDir: baseDir}, nil
}

func (l *LocalUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if input.Key == "" {
		return nil, fmt.Errorf("storage: key vazia")
	}
	// Key já vem higienizada pelo handler; filepath.Base evita travessia de diretório.
	nome := filepath.Base(input.Key)
	destino := filepath.Join(l.baseDir, nome)
	if err := os.WriteFile(destino, input.Body, 0o644); err != nil {
		return nil, fmt.Errorf("storage: gravar %s: %w", destino, err)
	}
	return &UploadResult{Path: "uploads/" + nome}, nil
}

// Open devolve o arquivo salvo para servir via HTTP.
func (l *LocalUploader) Open(nome string) (*os.File, error) {
	return os.Open(filepath.Join(l.baseDir, filepath.Base(nome)))
}
