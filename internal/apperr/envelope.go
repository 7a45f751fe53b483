// ABOUTME: Response envelope wrapping every transport reply
// ABOUTME: Success carries data; failure carries code, message, and details
package apperr

import "encoding/json"

// Envelope is the wire shape of every response
type Envelope struct {
	OK    bool         `json:"ok"`
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the client-facing error body
type ErrorDetail struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OK wraps data in a success envelope
func OK(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// Fail wraps err in a failure envelope. Internal causes stay out of the message.
func Fail(err error) Envelope {
	if e, ok := As(err); ok {
		return Envelope{Error: &ErrorDetail{Code: e.Code, Message: e.Message, Details: e.Details}}
	}
	return Envelope{Error: &ErrorDetail{Code: CodeInternal, Message: "internal error"}}
}

// Status returns the HTTP status for the envelope
func (e Envelope) Status() int {
	if e.OK || e.Error == nil {
		return 200
	}
	return e.Error.Code.Status()
}

// JSON renders the envelope; marshal failures degrade to an internal error body
func (e Envelope) JSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"ok":false,"error":{"code":"INTERNAL_ERROR","message":"encoding response failed"}}`)
	}
	return data
}
