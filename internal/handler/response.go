package handler

import "net/http"

// Response is the dispatcher's reply: status, headers and a JSON-serializable body.
// A nil Body means no content.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       any
}

// Message is the error body shape, e.g. {"message":"Not found"}.
type Message struct {
	Message string `json:"message"`
}

const (
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Not found"
	msgMissingID    = "Missing required query param: id"
	msgMissingText  = "Missing required field: text"
	msgInvalidText  = "Invalid field: text must be a string"
)

// corsHeaders returns the fixed headers carried by every response.
func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
	}
}

func respond(status int, body any) Response {
	return Response{StatusCode: status, Headers: corsHeaders(), Body: body}
}

func message(status int, msg string) Response {
	return respond(status, Message{Message: msg})
}

func ok(body any) Response {
	return respond(http.StatusOK, body)
}

func notFound() Response {
	return message(http.StatusNotFound, msgNotFound)
}
