package errs

import "errors"

// Envelope is the body of every error response.
type Envelope struct {
	Error Body `json:"error"`
}

type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Normalize turns any error into the ApiErr that will be sent to the client.
//
// Oversized bodies win over everything else, then ApiErr values pass through untouched,
// then body-parser and storage errors are mapped. Anything left is an internal error whose
// message is only attached outside production.
func Normalize(err error, production bool) *ApiErr {
	if err == nil {
		return nil
	}

	if isPayloadTooLarge(err) {
		e := NewBadRequestError("payload too large")
		e.Cause = err
		return e
	}

	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if e, ok := fromRequest(err); ok {
		e.Cause = err
		return e
	}

	if e, ok := fromDatabase(err); ok {
		if e.Code == CodeInternalError && !production {
			e.Details = err.Error()
		}
		return e
	}

	e := NewInternalErrorWithCause("internal server error", err)
	if !production {
		e.Details = err.Error()
	}
	return e
}

// ToEnvelope renders the client-visible part of an ApiErr.
func (e *ApiErr) ToEnvelope() Envelope {
	return Envelope{Error: Body{Code: e.Code, Message: e.Message, Details: e.Details}}
}
