package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/domain/search"
)

// errLinkMissing is returned when a selection has no checkout link.
var errLinkMissing = errors.New("checkout link missing")

// malformedError reports a request that could not be decoded.
type malformedError struct {
	err error
}

func (e *malformedError) Error() string { return "malformed request: " + e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

func malformed(err error) error {
	return &malformedError{err: err}
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var me *malformedError
	switch {
	case errors.As(err, &me),
		errors.Is(err, search.ErrInvalidQuery),
		errors.Is(err, product.ErrInvalidFulfillment),
		errors.Is(err, cart.ErrUnknownOp):
		return http.StatusBadRequest
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, errLinkMissing):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrUnknownSize),
		errors.Is(err, cart.ErrOutOfStock):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an API error. Unexpected errors are logged and their
// details withheld from the client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		msg = "internal server error"
	}
	writeError(w, status, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
