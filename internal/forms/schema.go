// Package forms implements the schema-driven clinical form engine: typed
// field definitions, submit-time validation, and payload coercion shared by
// every screening condition.
package forms

// FieldType enumerates the supported input kinds.
type FieldType string

const (
	FieldNumber FieldType = "number"
	FieldSelect FieldType = "select"
	FieldText   FieldType = "text"
)

// PayloadKind controls how a raw string value is coerced into the upstream
// request payload.
type PayloadKind string

const (
	// PayloadNumber coerces the raw value to a float64.
	PayloadNumber PayloadKind = "number"
	// PayloadString passes the raw value through unchanged.
	PayloadString PayloadKind = "string"
)

// Option is one selectable choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldSchema describes one form input. Schemas are immutable and defined
// per condition at startup.
type FieldSchema struct {
	Name     string      `json:"name"` // payload key
	Label    string      `json:"label"`
	Type     FieldType   `json:"type"`
	Required bool        `json:"required"`
	Min      *float64    `json:"min,omitempty"`
	Max      *float64    `json:"max,omitempty"`
	Options  []Option    `json:"options,omitempty"`
	Unit     string      `json:"unit,omitempty"`
	Payload  PayloadKind `json:"-"`
}

// payloadKind resolves the effective coercion kind: numeric fields default
// to number, everything else to string.
func (f FieldSchema) payloadKind() PayloadKind {
	if f.Payload != "" {
		return f.Payload
	}
	if f.Type == FieldNumber {
		return PayloadNumber
	}
	return PayloadString
}

// hasOption reports whether raw matches one of the declared option values.
func (f FieldSchema) hasOption(raw string) bool {
	for _, opt := range f.Options {
		if opt.Value == raw {
			return true
		}
	}
	return false
}

// FormState is the raw string input keyed by field name.
type FormState map[string]string

// ValidationErrors maps field names to human-readable messages. An empty
// map means the form is submittable.
type ValidationErrors map[string]string

// helpers for building numeric bounds in schema literals

func Float(v float64) *float64 {
	return &v
}
