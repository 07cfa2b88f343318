package storage

import "context"

// UploadInput representa uma operação de upload de foto de ninho.
type UploadInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// UploadResult descreve o artefato persistido.
type UploadResult struct {
	// Path é o caminho lógico servido pela API (ex.: "uploads/abc.jpg").
	Path string
	// URL é o endereço público quando o backend expõe um (S3).
	URL string
}

// Uploader define comportamento básico para armazenar fotos.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}
