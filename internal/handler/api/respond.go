package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/askeland/vanir/internal/domain"
	"github.com/askeland/vanir/internal/middleware"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorPayload struct {
	Code              string            `json:"code"`
	Message           string            `json:"message"`
	Fields            map[string]string `json:"fields,omitempty"`
	AvailableQuantity *int32            `json:"availableQuantity,omitempty"`
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps a domain error onto an HTTP status and JSON body.
// Internal errors are logged with the request ID and answered opaquely.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	payload := errorPayload{
		Code:    "internal",
		Message: "Internal server error",
	}
	status := http.StatusInternalServerError

	if oos := domain.IsOutOfStock(err); oos != nil {
		available := oos.Available
		respondJSON(w, http.StatusBadRequest, errorBody{Error: errorPayload{
			Code:              domain.EOUTOFSTOCK,
			Message:           oos.Error(),
			AvailableQuantity: &available,
		}})
		return
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: errorPayload{
			Code:    "invalid",
			Message: "Validation failed",
			Fields:  verr.Fields,
		}})
		return
	}

	switch code := domain.ErrorCode(err); code {
	case domain.EINVALID:
		status, payload.Code = http.StatusBadRequest, "invalid"
		payload.Message = domain.ErrorMessage(err)
	case domain.ENOTFOUND:
		status, payload.Code = http.StatusNotFound, "not_found"
		payload.Message = domain.ErrorMessage(err)
	case domain.ECONFLICT:
		status, payload.Code = http.StatusConflict, "conflict"
		payload.Message = domain.ErrorMessage(err)
	case domain.EUNAUTHORIZED:
		status, payload.Code = http.StatusUnauthorized, "unauthorized"
		payload.Message = domain.ErrorMessage(err)
	case domain.EFORBIDDEN:
		status, payload.Code = http.StatusForbidden, "forbidden"
		payload.Message = domain.ErrorMessage(err)
	case domain.ERATELIMIT:
		status, payload.Code = http.StatusTooManyRequests, "rate_limit"
		payload.Message = domain.ErrorMessage(err)
	default:
		var userID string
		if user := middleware.GetUser(r.Context()); user != nil {
			userID = user.ID
		}
		logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"user_id", userID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}

	respondJSON(w, status, errorBody{Error: payload})
}

// decodeJSON parses and validates a request body. Validation failures come
// back as a field-keyed ValidationError.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("", "Invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			verr := &domain.ValidationError{Fields: map[string]string{}}
			for _, fe := range invalid {
				verr.Fields[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
			return verr
		}
		return domain.Invalid("", "Invalid request body")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be %s or more", fe.Param())
	default:
		return "Invalid value"
	}
}
