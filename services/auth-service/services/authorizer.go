package services

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/common/auth"
)

const (
	DefaultPrincipalID = "user123"
	PolicyVersion      = "2012-10-17"
	InvokeAction       = "execute-api:Invoke"
	EffectAllow        = "Allow"
)

// ErrUnauthorized is the exact rejection API Gateway maps to a 401.
var ErrUnauthorized = errors.New("Unauthorized")

// Authorizer is an API Gateway TOKEN authorizer backed by a shared secret.
// With no secret configured every request is rejected.
type Authorizer struct {
	verifier    *auth.Verifier
	principalID string
	logger      *zap.Logger
}

func NewAuthorizer(verifier *auth.Verifier, principalID string, logger *zap.Logger) *Authorizer {
	if principalID == "" {
		principalID = DefaultPrincipalID
	}
	return &Authorizer{verifier: verifier, principalID: principalID, logger: logger}
}

// Authorize returns an Allow policy scoped to the requested method ARN.
func (a *Authorizer) Authorize(_ context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	if err := a.verifier.VerifyHeader(req.AuthorizationToken); err != nil {
		a.logger.Warn("Authorization rejected", zap.String("method_arn", req.MethodArn), zap.Error(err))
		return events.APIGatewayCustomAuthorizerResponse{}, ErrUnauthorized
	}
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: a.principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: PolicyVersion,
			Statement: []events.IAMPolicyStatement{{
				Action:   []string{InvokeAction},
				Effect:   EffectAllow,
				Resource: []string{req.MethodArn},
			}},
		},
	}, nil
}
