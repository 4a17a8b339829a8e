package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"portfolio-backend/pkg/api"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("error serializing response body", "error", err)
	}
}

// writeError maps any error to the {success:false, message} envelope.
// The message is the error text verbatim, including for 500s; internal
// errors are additionally logged server side.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var cerr *codedError
	if errors.As(err, &cerr) {
		code = cerr.code
	} else {
		slog.Error("received non coded error from endpoint", "error", err)
	}
	if code == http.StatusInternalServerError {
		slog.Error("internal server error received in endpoint", "error", err)
	}

	writeJson(w, code, api.ErrorResponse{Success: false, Message: err.Error()})
}

func restHandler(status int, handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			writeError(w, err)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		writeJson(w, status, api.SuccessResponse{Success: true, Data: res})
	}
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return restHandler(http.StatusOK, handler)
}

func CreatedHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return restHandler(http.StatusCreated, handler)
}

// Recoverer converts a handler panic into the standard 500 envelope so
// clients never see a bare stack trace or an HTML error page.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil && rec != http.ErrAbortHandler {
				slog.Error("panic recovered in endpoint", "path", r.URL.Path, "panic", rec)
				writeJson(w, http.StatusInternalServerError, api.ErrorResponse{Success: false, Message: fmt.Sprint(rec)})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func URLParamInt(r *http.Request, key string) (uint, error) {
	param := chi.URLParam(r, key)

	if len(param) == 0 {
		return 0, CodedErrorf(http.StatusBadRequest, "missing {%v} url parameter", key)
	}

	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, CodedErrorf(http.StatusBadRequest, "invalid id '%v' url parameter provided", param)
	}

	return uint(id), nil
}
