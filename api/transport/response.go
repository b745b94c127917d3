package transport

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response. Data is omitted when empty, so an
// empty list arrives without a data field.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta describes one page of an owner-scoped listing.
type ListMeta struct {
	Count  int `json:"count"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

// NewError builds an error envelope; err is usually a message string.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: err, Meta: meta}
}

// String renders the envelope for writers that bypass the handler base.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return `{"status":"error"}`
	}
	return string(out)
}

// RawEnvelope is the decoding side of Envelope.
type RawEnvelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

// HasData reports whether a data field with a non-null value was sent.
func (e RawEnvelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// ErrorMessage returns the error field as text.
func (e RawEnvelope) ErrorMessage() string {
	if len(e.Error) == 0 {
		return ""
	}
	var message string
	if err := json.Unmarshal(e.Error, &message); err == nil {
		return message
	}
	return string(e.Error)
}
