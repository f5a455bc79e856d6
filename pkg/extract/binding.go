package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// rejectBinding classifies an error returned by a gin binding
func rejectBinding(source string, err error) error {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		return &Rejection{
			Status:  http.StatusUnprocessableEntity,
			Kind:    "invalid_" + source,
			Message: "failed to validate " + source,
			Err:     err,
		}
	}

	var syntax *json.SyntaxError
	var mismatch *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return &Rejection{Status: http.StatusBadRequest, Kind: "missing_" + source, Message: "request " + source + " is empty", Err: err}
	case errors.As(err, &syntax):
		return &Rejection{Status: http.StatusBadRequest, Kind: "malformed_" + source, Message: "failed to parse " + source, Err: err}
	case errors.As(err, &mismatch):
		return &Rejection{Status: http.StatusUnprocessableEntity, Kind: "invalid_" + source, Message: "failed to deserialize " + source, Err: err}
	}

	return &Rejection{Status: http.StatusBadRequest, Kind: "malformed_" + source, Message: "failed to bind " + source, Err: err}
}

type pathParamsKey struct{}

// WithPathParams stores router path parameters for the Path extractor
func WithPathParams(ctx context.Context, params map[string]string) context.Context {
	return context.WithValue(ctx, pathParamsKey{}, params)
}

// PathParams returns the parameters stored by WithPathParams
func PathParams(ctx context.Context) (map[string]string, bool) {
	params, ok := ctx.Value(pathParamsKey{}).(map[string]string)
	return params, ok
}
