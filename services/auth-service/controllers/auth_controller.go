package controllers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
)

type Authorizer interface {
	Authorize(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error)
}

type AuthController struct {
	authorizer Authorizer
}

func NewAuthController(a Authorizer) *AuthController {
	return &AuthController{authorizer: a}
}

func (ac *AuthController) RegisterRoutes(r gin.IRouter) {
	r.POST("/authorize", ac.Authorize)
}

// Authorize handles POST /authorize. The body is the TOKEN authorizer event;
// when authorizationToken is absent the request's own Authorization header is
// checked instead.
func (ac *AuthController) Authorize(c *gin.Context) {
	var req events.APIGatewayCustomAuthorizerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
	}
	if req.AuthorizationToken == "" {
		req.AuthorizationToken = c.GetHeader("Authorization")
	}
	if req.Type == "" {
		req.Type = "TOKEN"
	}

	policy, err := ac.authorizer.Authorize(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, policy)
}
