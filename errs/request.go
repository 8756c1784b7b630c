package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ErrPayloadTooLarge is reported for any request body over the configured limit.
var ErrPayloadTooLarge = errors.New("payload too large")

// isPayloadTooLarge reports oversized bodies from either the JSON or the multipart reader.
func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr) ||
		errors.Is(err, multipart.ErrMessageTooLarge) ||
		errors.Is(err, ErrPayloadTooLarge)
}

// fromRequest maps body-parser failures. The second return value is false when err is not one.
func fromRequest(err error) (*ApiErr, bool) {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return NewBadRequestError("malformed JSON body"), true
	case errors.Is(err, io.EOF):
		return NewBadRequestError("request body is required"), true
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return NewBadRequestError("request body must be a JSON object"), true
		}
		return NewInvalidFieldError(typeErr.Field, fmt.Sprintf("has an invalid type (expected %s)", typeErr.Type)), true
	}
	return nil, false
}
