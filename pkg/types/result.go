package types

import (
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
)

// ActionResult is the uniform envelope every copilot action returns. Its
// shape is the contract consumed by the storefront's conversational layer
// and must stay stable field-for-field.
type ActionResult struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data,omitempty"`
	ActionRequired string         `json:"action_required,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data map[string]any) ActionResult {
	return ActionResult{Success: true, Message: message, Data: data}
}

// Fail converts a pipeline error into a failure envelope. The human-facing
// message prefers the error's own text; raw causes never leak, only the code
// metadata's public message when the error is untyped.
func Fail(err error) ActionResult {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if m := typed.Message(); m != "" && typed.Code() != pkgerrors.CodeInternal {
		msg = m
	}

	result := ActionResult{
		Success:        false,
		Message:        msg,
		ActionRequired: meta.ActionRequired,
	}

	if meta.DetailsAllowed {
		if details, ok := typed.Details().(map[string]any); ok && len(details) > 0 {
			result.Data = details
		}
	}

	result.Data = withErrorCode(result.Data, string(typed.Code()))
	return result
}

func withErrorCode(data map[string]any, code string) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["error_code"] = code
	return data
}
