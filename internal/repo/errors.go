package repo

import "errors"

var (
	// ErrNotFound indica consulta sem linhas; os handlers convertem em 404.
	ErrNotFound = errors.New("registro não encontrado")
)
