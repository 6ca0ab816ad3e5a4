package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// IDResponse is returned when a row is created.
type IDResponse struct {
	ID int64 `json:"id"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStorageError maps a data access failure to a status code.
func respondStorageError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, database.ErrDuplicateKey):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already exists", Code: "duplicate_key"})
	case errors.Is(err, database.ErrMalformedStatement):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request", Code: "malformed_statement"})
	case errors.Is(err, database.ErrConstraintViolation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "referenced record does not exist", Code: "constraint_violation"})
	case errors.Is(err, database.ErrConnectionLost):
		log.Printf("Store unavailable (%s): %v", context, err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable", Code: "connection_lost"})
	default:
		respondInternalError(c, err, context)
	}
}

// respondCreated sends a 201 Created response with the new row id.
func respondCreated(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a positive integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}
