package http

import "encoding/json"

// APIResponse is the {status, message, data} envelope written by every
// endpoint. Status repeats the logical HTTP status.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// rawEnvelope is APIResponse as read back by Client, data left undecoded.
type rawEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// failed reports whether the envelope carries an error status.
func (e rawEnvelope) failed() bool { return e.Status >= 400 }

// ValidationError is one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
