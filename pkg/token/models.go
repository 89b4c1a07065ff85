package token

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccessTokenExpirationTime = time.Hour * 8

	TokenTypeBearer = "Bearer"
)

type CreateTokenParams struct {
	ID       uuid.UUID
	Email    string
	Role     string
	Duration time.Duration
}
