package auth

import (
	"context"
	"errors"
	"fmt"

	cognitoclient "medislot/cmd/internal/integration/aws/cognito"
	"medislot/cmd/internal/utils"
)

// CognitoAuthenticator validates access tokens by asking Cognito for the
// user they belong to. The role comes from the custom:role attribute.
type CognitoAuthenticator struct {
	Cognito cognitoclient.CognitoInterface
}

func NewCognitoAuthenticator(client cognitoclient.CognitoInterface) *CognitoAuthenticator {
	return &CognitoAuthenticator{Cognito: client}
}

func (a *CognitoAuthenticator) Authenticate(ctx context.Context, token string) (*utils.TokenData, error) {
	user, err := a.Cognito.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, cognitoclient.ErrNotAuthorized) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}

	role, ok := parseRole(user.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q for %s", ErrInvalidToken, user.Role, user.Sub)
	}
	return &utils.TokenData{Sub: user.Sub, Role: role}, nil
}
