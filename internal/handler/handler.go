package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hartetoti/backend/internal/logger"
	"github.com/hartetoti/backend/internal/render"
	"github.com/hartetoti/backend/internal/service"
	"github.com/hartetoti/backend/internal/validation"
)

const maxBodyBytes = 1 << 20

var validate = validation.New()

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// An empty body decodes to the zero value so that required fields fail
// validation instead of decoding.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return validate.Struct(dst)
}

// isValidationError reports whether err came from struct tags rather than
// from a malformed body.
func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// fail answers a service error. authStatus is what an AuthError maps to on
// this route: 401 before authentication (login), 400 everywhere else.
func fail(w http.ResponseWriter, r *http.Request, err error, authStatus int) {
	serviceErr, ok := service.AsError(err)
	if !ok {
		logger.Error("request failed", err, "method", r.Method, "path", r.URL.Path)
		render.InternalError(w)
		return
	}

	render.Error(w, statusFor(serviceErr.Kind, authStatus), serviceErr.Message)
}

func statusFor(kind service.ErrorKind, authStatus int) int {
	switch kind {
	case service.KindAuth:
		return authStatus
	case service.KindAuthorization:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
