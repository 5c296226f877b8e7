package crm

import "strings"

// AppError is the error taxonomy surfaced by both the HTML and JSON
// handlers. The central Fiber error handler maps it to a status code and,
// on the API surface, a {"error": message} body.
type AppError struct {
	Status  int      `json:"-"`
	Message string   `json:"error"`
	Allow   []string `json:"-"` // populated for 405 responses only
}

func (e *AppError) Error() string {
	return e.Message
}

// StatusCode reports the HTTP status for this error.
func (e *AppError) StatusCode() int {
	return e.Status
}

// AllowHeader returns the Allow header value for method-not-allowed errors.
func (e *AppError) AllowHeader() string {
	return strings.Join(e.Allow, ", ")
}

func ValidationError(msg string) *AppError {
	return &AppError{Status: 400, Message: msg}
}

func NotFoundError(msg string) *AppError {
	return &AppError{Status: 404, Message: msg}
}

func MethodNotAllowedError(allow ...string) *AppError {
	return &AppError{Status: 405, Message: "method not allowed", Allow: allow}
}
