package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const resetPurpose = "password_reset"

var (
	// ErrResetExpired indica que o link de redefinição passou da validade.
	ErrResetExpired = errors.New("token de redefinição expirado")
	// ErrResetInvalid indica token corrompido ou com propósito errado.
	ErrResetInvalid = errors.New("token de redefinição inválido")
)

// resetClaims carrega o propósito junto das claims padrão para que um
// token de acesso nunca sirva como token de redefinição.
type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateResetToken emite um token assinado e com validade curta para
// redefinição de senha. Retorna também o jti, usado como marcador de uso
// único no Redis.
func (m *JWTManager) GenerateResetToken(subject string, ttl time.Duration) (string, string, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()

	claims := resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ParseResetToken valida assinatura, expiração e propósito, devolvendo
// subject e jti.
func (m *JWTManager) ParseResetToken(tokenString string) (subject, jti string, err error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &resetClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrResetExpired
		}
		return "", "", ErrResetInvalid
	}

	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || claims.Purpose != resetPurpose {
		return "", "", ErrResetInvalid
	}

	return claims.Subject, claims.ID, nil
}

// ResetRedisKey monta a chave que marca um token de redefinição como já usado.
func ResetRedisKey(jti string) string {
	return "reset:used:" + jti
}
