package common

import (
	"errors"
	"sync/atomic"
)

var exposeInternal atomic.Bool

// SetExposeInternalErrors decides at startup whether 500 responses carry the
// underlying error text. Off in production.
func SetExposeInternalErrors(v bool) {
	exposeInternal.Store(v)
}

// ExposeInternalErrors reports the startup setting.
func ExposeInternalErrors() bool {
	return exposeInternal.Load()
}

// ResponseMeta is the status block of every response body.
type ResponseMeta struct {
	ResponseCode    int    `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	ErrorCode       string `json:"error_code,omitempty"`
	Details         any    `json:"details,omitempty"`
}

// Envelope is the body shape shared by success and error responses.
type Envelope struct {
	Response ResponseMeta `json:"response"`
	Data     any          `json:"data"`
}

// SuccessEnvelope wraps data.
func SuccessEnvelope(status int, message string, data any) Envelope {
	return Envelope{
		Response: ResponseMeta{ResponseCode: status, ResponseMessage: message},
		Data:     data,
	}
}

// ErrorEnvelope maps err onto the envelope and returns the HTTP status to
// send. Foreign errors become a generic 500; their text is only exposed when
// exposeInternal is set.
func ErrorEnvelope(err error, exposeInternal bool) (int, Envelope) {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode, Envelope{Response: ResponseMeta{
			ResponseCode:    e.StatusCode,
			ResponseMessage: e.Message,
			ErrorCode:       e.Code.Code,
			Details:         e.Details,
		}}
	}

	meta := ResponseMeta{
		ResponseCode:    StatusInternalServerError,
		ResponseMessage: MsgInternalError,
		ErrorCode:       ErrCodeInternalServer.Code,
	}
	if exposeInternal {
		meta.Details = err.Error()
	}
	return StatusInternalServerError, Envelope{Response: meta}
}
