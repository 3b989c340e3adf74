package forms

import (
	"strconv"
	"strings"
)

// BuildPayload converts validated form state into the upstream request
// payload. Numeric fields (and selects with numeric payload values, such as
// encoded gender or yes/no flags) become float64; everything else passes
// through as-is. Callers must run Validate first; unparseable numbers are
// skipped here rather than guessed at.
func BuildPayload(state FormState, schema []FieldSchema) map[string]interface{} {
	payload := make(map[string]interface{}, len(schema))

	for _, field := range schema {
		raw := strings.TrimSpace(state[field.Name])
		if raw == "" {
			continue
		}

		switch field.payloadKind() {
		case PayloadNumber:
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			payload[field.Name] = value
		default:
			payload[field.Name] = raw
		}
	}

	return payload
}
