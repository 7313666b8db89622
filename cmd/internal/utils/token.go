package utils

import (
	"errors"

	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleCenter  Role = "center"
	RoleAdmin   Role = "admin"
)

// TokenData is the caller identity resolved by the auth middleware.
type TokenData struct {
	Sub  string
	Role Role
}

func (t *TokenData) IsAdmin() bool {
	return t.Role == RoleAdmin
}

var ErrNoTokenData = errors.New("no token data in request context")

func SetTokenDataCtx(c echo.Context, data *TokenData) {
	c.Set(tokenDataKey, data)
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil || data.Sub == "" {
		return nil, ErrNoTokenData
	}
	return data, nil
}
