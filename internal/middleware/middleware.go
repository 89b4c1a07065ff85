package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/token"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*token.UserClaims, error)
}

var _ TokenValidator = (*token.Jwt)(nil)

type Middleware struct {
	TokenSvc TokenValidator
	Logger   *logger.Logger
}

func New(tokenSvc TokenValidator, log *logger.Logger) *Middleware {
	return &Middleware{
		TokenSvc: tokenSvc,
		Logger:   log,
	}
}

func (m *Middleware) apiError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		"status":  code,
	})
}
