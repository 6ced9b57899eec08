package controllers

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/yashrajoria/car-rental/backend/services/common/errors"
)

// Shape says how the caller expects its answer.
type Shape int

const (
	// ShapeSynchronous is an API Gateway style request; the answer is a
	// status code plus JSON body.
	ShapeSynchronous Shape = iota + 1
	// ShapeOrchestrator is a plain object from a workflow; the answer is the
	// bare result so the workflow can branch on its status field.
	ShapeOrchestrator
)

func (s Shape) String() string {
	switch s {
	case ShapeSynchronous:
		return "synchronous"
	case ShapeOrchestrator:
		return "orchestrator"
	default:
		return "unknown"
	}
}

// Invocation is a raw event resolved to its shape and decoded payload.
type Invocation struct {
	Shape   Shape
	Payload map[string]any
}

// ParseInvocation classifies a raw event. Objects carrying a "body" key are
// synchronous requests whose body is a JSON string (or an inline object);
// anything else is an orchestrator payload. A malformed synchronous body
// still yields ShapeSynchronous so the error can be answered in that shape.
func ParseInvocation(raw []byte) (Invocation, error) {
	var envelope map[string]json.RawMessage
	if err := decodeJSON(raw, &envelope); err != nil || envelope == nil {
		return Invocation{Shape: ShapeOrchestrator}, apperrors.Validation("Invalid request payload")
	}

	body, ok := envelope["body"]
	if !ok {
		var payload map[string]any
		if err := decodeJSON(raw, &payload); err != nil {
			return Invocation{Shape: ShapeOrchestrator}, apperrors.Validation("Invalid request payload")
		}
		return Invocation{Shape: ShapeOrchestrator, Payload: payload}, nil
	}

	inv := Invocation{Shape: ShapeSynchronous, Payload: map[string]any{}}
	payload, err := decodeBody(body)
	if err != nil {
		return inv, err
	}
	inv.Payload = payload
	return inv, nil
}

// decodeBody accepts null, a JSON string holding an object, or an object.
func decodeBody(body json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, apperrors.Validation("Invalid JSON body")
		}
		if len(bytes.TrimSpace([]byte(s))) == 0 {
			return map[string]any{}, nil
		}
		trimmed = []byte(s)
	}

	var payload map[string]any
	if err := decodeJSON(trimmed, &payload); err != nil || payload == nil {
		return nil, apperrors.Validation("Invalid JSON body")
	}
	return payload, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
