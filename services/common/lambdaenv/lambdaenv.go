// Package lambdaenv adapts the gin services to the Lambda runtime.
package lambdaenv

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// InLambda reports whether the process was started by the Lambda runtime.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}

// Headers is the fixed header set on every API Gateway response.
func Headers() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// JSON builds an API Gateway proxy response with body encoded as JSON.
func JSON(status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Internal server error"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: Headers(), Body: string(b)}
}

// ProxyHandler serves API Gateway proxy events through r. Responses carry the
// fixed header set unless the handler already set the same header.
func ProxyHandler(r *gin.Engine) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	adapter := ginadapter.New(r)
	return func(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp, err := adapter.ProxyWithContext(ctx, ev)
		if err != nil {
			return JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"}), nil
		}
		if resp.MultiValueHeaders == nil {
			resp.MultiValueHeaders = http.Header{}
		}
		h := http.Header(resp.MultiValueHeaders)
		for k, v := range Headers() {
			if h.Get(k) == "" {
				h.Set(k, v)
			}
		}
		resp.MultiValueHeaders = h
		return resp, nil
	}
}
