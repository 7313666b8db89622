package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

const roleAttribute = "custom:role"

// ErrNotAuthorized is returned when Cognito rejects the access token or the
// user behind it no longer exists.
var ErrNotAuthorized = errors.New("cognito: access token not authorized")

type CognitoInterface interface {
	GetUser(ctx context.Context, accessToken string) (*UserIdentity, error)
}

type UserIdentity struct {
	Sub      string
	Username string
	Role     string
}

type identityAPI interface {
	GetUser(ctx context.Context, params *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
}

type CognitoClient struct {
	api identityAPI
}

func InitCognitoClient(ctx context.Context, region string) (*CognitoClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &CognitoClient{api: cip.NewFromConfig(cfg)}, nil
}

func newWithAPI(api identityAPI) *CognitoClient {
	return &CognitoClient{api: api}
}

func (c *CognitoClient) GetUser(ctx context.Context, accessToken string) (*UserIdentity, error) {
	out, err := c.api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NotAuthorizedException", "UserNotFoundException":
				return nil, ErrNotAuthorized
			}
		}
		return nil, fmt.Errorf("cognito get user: %w", err)
	}

	identity := &UserIdentity{Username: aws.ToString(out.Username)}
	identity.Sub, identity.Role = attributes(out.UserAttributes)
	if identity.Sub == "" {
		return nil, ErrNotAuthorized
	}
	return identity, nil
}

func attributes(attrs []types.AttributeType) (sub, role string) {
	for _, attr := range attrs {
		switch aws.ToString(attr.Name) {
		case "sub":
			sub = aws.ToString(attr.Value)
		case roleAttribute:
			role = aws.ToString(attr.Value)
		}
	}
	return sub, role
}
