// Package types holds the wire-level envelope shapes shared by every
// HTTP handler.
package types

// SuccessEnvelope wraps every 2xx JSON body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape; Details is only populated for codes
// whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx JSON body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// AcceptedEnvelope is returned by webhook endpoints that acknowledge
// receipt without exposing processing detail.
type AcceptedEnvelope struct {
	Status string `json:"status"`
}
