package forms

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate checks state against schema and returns the full error set, not
// the first failure, so every problem is visible at once. Checks per field:
// required non-empty, numeric parseability, declared [min, max] range, and
// select option membership.
func Validate(state FormState, schema []FieldSchema) ValidationErrors {
	errs := ValidationErrors{}

	for _, field := range schema {
		raw := strings.TrimSpace(state[field.Name])

		if raw == "" {
			if field.Required {
				errs[field.Name] = fmt.Sprintf("%s is required", field.Label)
			}
			continue
		}

		switch field.Type {
		case FieldNumber:
			// ParseFloat accepts "NaN" and "Inf"; neither is a usable
			// clinical value, and NaN would slip past the range checks.
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
				errs[field.Name] = fmt.Sprintf("%s must be a number", field.Label)
				continue
			}
			if field.Min != nil && value < *field.Min {
				errs[field.Name] = rangeMessage(field)
				continue
			}
			if field.Max != nil && value > *field.Max {
				errs[field.Name] = rangeMessage(field)
			}
		case FieldSelect:
			if len(field.Options) > 0 && !field.hasOption(raw) {
				errs[field.Name] = fmt.Sprintf("%s has an invalid selection", field.Label)
			}
		}
	}

	return errs
}

func rangeMessage(field FieldSchema) string {
	switch {
	case field.Min != nil && field.Max != nil:
		return fmt.Sprintf("%s must be between %s and %s", field.Label,
			trimFloat(*field.Min), trimFloat(*field.Max))
	case field.Min != nil:
		return fmt.Sprintf("%s must be at least %s", field.Label, trimFloat(*field.Min))
	default:
		return fmt.Sprintf("%s must be at most %s", field.Label, trimFloat(*field.Max))
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
