package auth

import (
	"context"
	"errors"
	"strings"

	"medislot/cmd/internal/utils"
	"medislot/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var ErrInvalidToken = errors.New("invalid token")

// Authenticator turns a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.TokenData, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity on the echo context for utils.ParseTokenDataCtx.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			data, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					log.Errorf("failed to authenticate request: %v", err)
					return c.JSON(apierror.InternalServerError.Code(), apierror.InternalServerError)
				}
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			utils.SetTokenDataCtx(c, data)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func parseRole(raw string) (utils.Role, bool) {
	switch role := utils.Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case "":
		return utils.RolePatient, true
	case utils.RolePatient, utils.RoleDoctor, utils.RoleCenter, utils.RoleAdmin:
		return role, true
	default:
		return "", false
	}
}
