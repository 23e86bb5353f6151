package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/catalog"
	"github.com/rcliao/sutra-power/internal/store"
)

// errorBody is the JSON body of every failed API call.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func notFound(kind string, id int64) error {
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s with id %d not found", kind, id))
}

// errorHandler maps errors to status codes: missing characters are 404,
// unavailable storage is 503, and anything else is 500.
type errorHandler struct {
	log *zap.Logger
}

func (h *errorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := h.classify(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err))
	}

	if err := c.JSON(code, errorBody{Success: false, Message: msg}); err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func (h *errorHandler) classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, nf.Error()
	}
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable, "Persistent storage is not available"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
