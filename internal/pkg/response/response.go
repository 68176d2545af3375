package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
)

// Message is the body of every non-2xx response and of bare acknowledgements.
type Message struct {
	Message string `json:"message"`
}

// BatchResult summarises a fan-out operation item by item.
type BatchResult[T any] struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Results    []T `json:"results"`
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Accepted sends a 202 response.
func Accepted(c *gin.Context, message string) {
	c.JSON(http.StatusAccepted, Message{Message: message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Msg sends a 200 acknowledgement body.
func Msg(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Message{Message: message})
}

// Error maps err through apperr and aborts. Internal causes are attached to
// the gin context for the request logger and never reach the client.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal || kind == apperr.KindUpstream {
		_ = c.Error(err)
	}
	abort(c, apperr.HTTPStatus(kind), apperr.PublicMessage(err))
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, "Not authenticated")
}

// NotFoundMsg sends a 404 with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message)
}

// NotFound is the fallback for unknown routes.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, "Not found")
}

// MethodNotAllowed is the fallback for known paths with the wrong verb.
func MethodNotAllowed(c *gin.Context) {
	abort(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "Too many requests")
}

// InternalError sends a generic 500 and records err for the logger.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	abort(c, http.StatusInternalServerError, "Internal server error")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Message{Message: message})
}

// ParamID parses the positive integer path parameter name. On failure it
// answers 400 and returns false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
