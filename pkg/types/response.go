package types

// SuccessEnvelope wraps successful API payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape: a machine-readable code plus a
// human-readable message. UI layers translate code to localized text.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps failed API payloads.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
