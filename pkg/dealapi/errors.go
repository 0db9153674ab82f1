package dealapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ExportFallbackMessage is shown when an export failure carries no usable
// message.
const ExportFallbackMessage = "Failed to generate lender report."

// StatusError is a non-2xx response from the service.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	// Message is the user-facing text for the failure.
	Message string
}

// messagePrefix names the failing call in user-facing status messages.
var messagePrefix = map[string]string{
	"draft":    "Draft API error",
	"finalize": "Finalize API error",
}

func newStatusError(op string, status int, body []byte) *StatusError {
	prefix, ok := messagePrefix[op]
	if !ok {
		prefix = "API error"
	}
	return &StatusError{
		Op:         op,
		StatusCode: status,
		Body:       string(body),
		Message:    fmt.Sprintf("%s %d: %s", prefix, status, string(body)),
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dealapi: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// UserMessage returns the text to surface for err. Status errors yield their
// Message; anything else its Error string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// exportMessage extracts a detail or message string from a JSON error body,
// falling back to ExportFallbackMessage.
func exportMessage(body []byte) string {
	var payload struct {
		Detail  any `json:"detail"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ExportFallbackMessage
	}
	if s, ok := payload.Detail.(string); ok && s != "" {
		return s
	}
	if s, ok := payload.Message.(string); ok && s != "" {
		return s
	}
	return ExportFallbackMessage
}

// parseMissingFields reads the missing_fields list from a 422 body, at the
// top level or under detail. Anything that is not a list of strings yields
// an empty list.
func parseMissingFields(body []byte) []string {
	var payload struct {
		MissingFields json.RawMessage `json:"missing_fields"`
		Detail        json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return []string{}
	}

	if len(payload.MissingFields) > 0 && string(payload.MissingFields) != "null" {
		return stringList(payload.MissingFields)
	}

	var detail struct {
		MissingFields json.RawMessage `json:"missing_fields"`
	}
	if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil && len(detail.MissingFields) > 0 {
		return stringList(detail.MissingFields)
	}
	return []string{}
}

func stringList(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}
