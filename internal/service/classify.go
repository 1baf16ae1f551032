package service

import (
	"fmt"
	"strings"
)

// defaultFailureMessage is returned when a provider reports a failed
// status without any usable message.
const defaultFailureMessage = "Unknown Key Error"

// Outcome is the classified result of a provider response body.
type Outcome struct {
	Success bool
	Payload any
	Message string
}

// Classify inspects a decoded provider response body and decides whether
// the lookup logically succeeded. Providers signal failure in two shapes:
// an "error" field carrying a truthy value, or a "status" field equal to
// "failed" with an optional "message". Anything else counts as success
// and the body is passed through as the payload.
func Classify(body any) Outcome {
	obj, ok := body.(map[string]any)
	if !ok {
		return Outcome{Success: true, Payload: body}
	}

	if errVal, present := obj["error"]; present && truthy(errVal) {
		return Outcome{Success: false, Message: stringify(errVal)}
	}

	if status, present := obj["status"]; present && stringify(status) == "failed" {
		msg := defaultFailureMessage
		if m, ok := obj["message"]; ok && truthy(m) {
			msg = stringify(m)
		}
		return Outcome{Success: false, Message: msg}
	}

	return Outcome{Success: true, Payload: body}
}

// truthy mirrors loose boolean semantics: nil, false, zero numbers and
// empty strings/collections are false, everything else is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
