// Package gateway converts API Gateway proxy events to and from the
// transport-neutral handler types. Both REST API (payload v1) and HTTP API
// (payload v2) events are accepted.
package gateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/A-W-S-G-I-T/notes-api/internal/auth"
	"github.com/A-W-S-G-I-T/notes-api/internal/handler"
)

// event holds the fields shared by v1 and v2 payloads. Body stays raw so a
// JSON object body can be told apart from a string body.
type event struct {
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  json.RawMessage   `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	RequestContext        struct {
		HTTP       events.APIGatewayV2HTTPRequestContextHTTPDescription `json:"http"`
		Authorizer json.RawMessage                                      `json:"authorizer"`
	} `json:"requestContext"`
}

// Decode parses a raw Lambda event into a handler.Request.
func Decode(raw json.RawMessage) (handler.Request, error) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return handler.Request{}, fmt.Errorf("decode event: %w", err)
	}

	method := ev.RequestContext.HTTP.Method
	if method == "" {
		method = ev.HTTPMethod
	}

	body, err := decodeBody(ev.Body, ev.IsBase64Encoded)
	if err != nil {
		return handler.Request{}, err
	}

	return handler.Request{
		Method: method,
		Query:  query(ev.QueryStringParameters),
		Body:   body,
		Credentials: auth.Credentials{
			Claims:        authorizerClaims(ev.RequestContext.Authorizer),
			Authorization: header(ev.Headers, "Authorization"),
		},
	}, nil
}

// FromProxyRequest converts a typed REST API event, as built by the local server.
func FromProxyRequest(req events.APIGatewayProxyRequest) (handler.Request, error) {
	body := handler.NoBody()
	if req.Body != "" {
		text, err := bodyText(req.Body, req.IsBase64Encoded)
		if err != nil {
			return handler.Request{}, err
		}
		body = handler.RawBody(text)
	}

	return handler.Request{
		Method: req.HTTPMethod,
		Query:  query(req.QueryStringParameters),
		Body:   body,
		Credentials: auth.Credentials{
			Claims:        stringClaims(req.RequestContext.Authorizer["claims"]),
			Authorization: header(req.Headers, "Authorization"),
		},
	}, nil
}

func decodeBody(raw json.RawMessage, isBase64 bool) (handler.Body, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return handler.NoBody(), nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return handler.Body{}, fmt.Errorf("decode body: %w", err)
		}
		if s == "" {
			return handler.NoBody(), nil
		}
		text, err := bodyText(s, isBase64)
		if err != nil {
			return handler.Body{}, err
		}
		return handler.RawBody(text), nil
	case '{':
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return handler.Body{}, fmt.Errorf("decode body: %w", err)
		}
		return handler.ParsedBody(m), nil
	}

	// Anything else is kept as text; it only fails if a handler reads it.
	return handler.RawBody(string(raw)), nil
}

func bodyText(s string, isBase64 bool) (string, error) {
	if !isBase64 {
		return s, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode base64 body: %w", err)
	}
	return string(b), nil
}

// authorizerClaims reads v2 JWT authorizer claims, falling back to the v1
// Cognito user pool authorizer's claims object.
func authorizerClaims(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var authorizer map[string]any
	if err := json.Unmarshal(raw, &authorizer); err != nil {
		return nil
	}
	if jwt, ok := authorizer["jwt"].(map[string]any); ok {
		if claims := stringClaims(jwt["claims"]); len(claims) > 0 {
			return claims
		}
	}
	return stringClaims(authorizer["claims"])
}

// stringClaims keeps the string-valued entries of a claims object.
func stringClaims(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	claims := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			claims[k] = s
		}
	}
	return claims
}

func query(params map[string]string) map[string]string {
	if params == nil {
		return map[string]string{}
	}
	return params
}

// header looks a header up case-insensitively; v2 lowercases header names.
func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Encode renders a handler.Response as a proxy response, which both REST
// and HTTP API integrations accept.
func Encode(resp handler.Response) (events.APIGatewayProxyResponse, error) {
	out := events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Headers)),
	}
	for k, v := range resp.Headers {
		out.Headers[k] = v
	}

	if resp.Body != nil {
		body, err := json.Marshal(resp.Body)
		if err != nil {
			return events.APIGatewayProxyResponse{}, fmt.Errorf("encode body: %w", err)
		}
		out.Body = string(body)
	}
	return out, nil
}
