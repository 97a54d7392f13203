package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Machine-readable error codes
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeEmptyInput = "empty_input"
	CodeInternal   = "internal_error"
	CodeBadRequest = "bad_request"
)

// --- Error Response Helpers ---

// respondError maps domain errors onto their status and code. Anything else,
// including store failures, is logged and answered with a generic 500 so
// causes never reach the client.
func respondError(c *gin.Context, log *logging.Logger, err error) {
	var validationErr *entities.ValidationError
	var notFoundErr *entities.NotFoundError
	var emptyErr *entities.EmptyInputError

	switch {
	case errors.As(err, &validationErr):
		resp := ErrorResponse{Error: validationErr.Error(), Code: CodeValidation}
		if validationErr.Field != "" {
			resp.Details = gin.H{"field": validationErr.Field}
		}
		c.JSON(validationErr.StatusCode(), resp)
	case errors.As(err, &notFoundErr):
		c.JSON(notFoundErr.StatusCode(), ErrorResponse{Error: notFoundErr.Error(), Code: CodeNotFound})
	case errors.As(err, &emptyErr):
		c.JSON(emptyErr.StatusCode(), ErrorResponse{
			Error:   emptyErr.Error(),
			Code:    CodeEmptyInput,
			Details: gin.H{"book_type": emptyErr.BookVariant},
		})
	default:
		respondInternalError(c, log, err)
	}
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, log *logging.Logger, err error) {
	log.Error("Internal error",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondBadRequest sends a 400 Bad Request response for malformed input.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadRequest})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// bookVariantQuery reads ?bookType=. Returns false after responding on error.
func bookVariantQuery(c *gin.Context, log *logging.Logger) (entities.BookVariant, bool) {
	variant, err := entities.ParseBookVariant(c.Query("bookType"))
	if err != nil {
		respondError(c, log, err)
		return "", false
	}
	return variant, true
}

// bindJSON decodes the request body. Returns false after responding on error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryBool parses a boolean query flag; absent or malformed means false.
func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
