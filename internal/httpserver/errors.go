package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

func classify(err error) (int, ErrorBody) {
	var (
		stock    *domain.InsufficientStockError
		missing  *domain.ProductNotFoundError
		quantity *domain.InvalidQuantityError
		invalid  *domain.ValidationError
	)
	switch {
	case errors.As(err, &stock):
		return http.StatusConflict, ErrorBody{
			Error:   "insufficient_stock",
			Message: stock.Error(),
			Details: map[string]any{
				"productId":   stock.ProductID,
				"productName": stock.ProductName,
				"available":   stock.Available,
				"requested":   stock.Requested,
			},
		}
	case errors.As(err, &missing):
		return http.StatusNotFound, ErrorBody{
			Error:   "product_not_found",
			Message: missing.Error(),
			Details: map[string]any{"productId": missing.ProductID},
		}
	case errors.As(err, &quantity):
		return http.StatusBadRequest, ErrorBody{
			Error:   "invalid_quantity",
			Message: quantity.Error(),
			Details: map[string]any{"productId": quantity.ProductID, "quantity": quantity.Quantity},
		}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, ErrorBody{Error: "validation_error", Message: "validation failed", Fields: invalid.Fields}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrorBody{Error: "validation_error", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorBody{Error: "unauthorized", Message: "authentication required"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorBody{Error: "forbidden", Message: "not enough rights"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorBody{Error: "conflict", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal_error", Message: "internal server error"}
	}
}

// fail logs "<op>_failed" and turns a service error into an HTTP error.
func fail(l zerolog.Logger, op string, err error) error {
	status, body := classify(err)
	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}
	ev.Err(err).Int("status", status).Str("reason", body.Error).Msg(op + "_failed")
	return &echo.HTTPError{Code: status, Message: body, Internal: err}
}

func badRequest(l zerolog.Logger, op, reason string, err error) error {
	l.Warn().Err(err).Int("status", http.StatusBadRequest).Str("reason", reason).Msg(op + "_failed")
	return &echo.HTTPError{
		Code:     http.StatusBadRequest,
		Message:  ErrorBody{Error: "bad_request", Message: reason},
		Internal: err,
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "error"
}

// ErrorHandler writes ErrorBody for handler errors, echo's own errors
// (unknown routes, bad methods, middleware rejections) and bare errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   ErrorBody
		he     *echo.HTTPError
	)
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case ErrorBody:
			body = m
		case string:
			body = ErrorBody{Error: codeFor(status), Message: m}
		default:
			body = ErrorBody{Error: codeFor(status), Message: http.StatusText(status)}
		}
	} else {
		status, body = classify(err)
		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error().Err(err).Msg("unhandled_error")
		}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error().Err(werr).Msg("write_error_response_failed")
	}
}
