package response

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message is the minimal body of 401/403/404 responses
type Message struct {
	Message string `json:"message"`
}

// Problem is the body of every 400 response: field → messages.
// The empty key holds errors not tied to a single field.
type Problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors"`
}

// ServerError is the opaque body returned for unexpected failures
type ServerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

const validationTitle = "One or more validation errors occurred."

// Success writes the DTO as is
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ValidationProblem writes a 400 with field-keyed messages
func ValidationProblem(c *gin.Context, errs map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Problem{
		Type:   "validation",
		Title:  validationTitle,
		Status: http.StatusBadRequest,
		Errors: errs,
	})
}

// BadRequest reports a single field error
func BadRequest(c *gin.Context, field, message string) {
	ValidationProblem(c, map[string][]string{field: {message}})
}

// Validation converts an ozzo-validation error into a 400.
// It returns false (and writes nothing) when err is not a validation error.
func Validation(c *gin.Context, err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	ValidationProblem(c, FlattenErrors(verrs))
	return true
}

// FlattenErrors turns nested validation.Errors into "parent.child" keys
func FlattenErrors(errs validation.Errors) map[string][]string {
	out := make(map[string][]string, len(errs))
	flatten("", errs, out)
	return out
}

func flatten(prefix string, errs validation.Errors, out map[string][]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		err := errs[k]
		if err == nil {
			continue
		}
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(name, nested, out)
			continue
		}
		out[name] = append(out[name], err.Error())
	}
}

func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Message{Message: message})
}

func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Message{Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, Message{Message: message})
}

// Internal hands the error to the ErrorHandler middleware, which
// persists it and writes the opaque 500 body.
func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// WriteServerError writes the opaque 500 body
func WriteServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ServerError{
		Type:    "error",
		Message: "An unexpected error occurred",
		Status:  http.StatusInternalServerError,
	})
}
