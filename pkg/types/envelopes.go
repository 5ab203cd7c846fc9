package types

// SuccessEnvelope wraps non-action API responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps API-level failures (bad requests, auth, panics).
// Action outcomes use ActionResult instead; its failures are part of the
// conversational contract, not transport errors.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
