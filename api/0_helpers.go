package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/mateusvmv/rent-vec/api/apicollectionv1"
	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/database"
	"github.com/mateusvmv/rent-vec/rentvec"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening || status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: %s", ErrUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps an error to its HTTP status and a short description.
func errorStatus(ctx context.Context, err error) (int, string) {

	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var syntacticError *jsontext.SyntacticError
	var conflict *rentvec.BorrowConflictError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "user is not authenticated"
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, "slow down"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "try again later"
	case errors.Is(err, box.ErrResourceNotFound):
		return http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String())
	case errors.Is(err, box.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method)
	case errors.Is(err, database.ErrCollectionNotFound):
		return http.StatusNotFound, "collection not found"
	case errors.Is(err, collection.ErrIndexNotFound):
		return http.StatusNotFound, "index not found"
	case errors.Is(err, collection.ErrRowNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, database.ErrCollectionAlreadyExists):
		return http.StatusConflict, "collection already exists"
	case errors.Is(err, collection.ErrIndexConflict):
		return http.StatusConflict, "index conflict"
	case errors.As(err, &conflict):
		return http.StatusConflict, fmt.Sprintf("%s is held", conflict.Held)
	case errors.Is(err, rentvec.ErrInvalidLease):
		return http.StatusGone, "document is gone"
	case errors.Is(err, rentvec.ErrCapacityExceeded):
		return http.StatusInsufficientStorage, "collection is full"
	case errors.As(err, &syntaxError), errors.As(err, &syntacticError), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Malformed JSON"
	case errors.As(err, &typeError):
		return http.StatusBadRequest, fmt.Sprintf("unexpected %s for field '%s'", typeError.Value, typeError.Field)
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "empty body"
	case errors.Is(err, apicollectionv1.ErrBadRequest):
		return http.StatusBadRequest, "bad request"
	}

	return http.StatusInternalServerError, "Unexpected error"
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}

		status, description := errorStatus(ctx, err)

		w := box.GetResponse(ctx)
		w.WriteHeader(status)
		PrettyError{
			Message:     err.Error(),
			Description: description,
		}.MarshalTo(w)
	}
}
