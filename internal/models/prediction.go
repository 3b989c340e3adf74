package models

import "time"

// RiskLevel is the three-valued ordinal shown to users.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskFromUpstream maps the categorical risk string returned by an
// inference service onto the display enum. Unrecognized labels map to
// moderate on purpose: an unknown label must never surface as low or high.
func RiskFromUpstream(label string) RiskLevel {
	switch label {
	case "Low":
		return RiskLow
	case "Borderline":
		return RiskModerate
	case "High":
		return RiskHigh
	default:
		return RiskModerate
	}
}

// ProbabilityPercent converts an upstream 0-1 probability into the integer
// percentage users see, clamped to [0, 100].
func ProbabilityPercent(p float64) int {
	pct := int(p*100 + 0.5)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Prediction is the normalized screening result. A new submission always
// produces a fresh Prediction; the gateway never merges results across
// submission cycles.
type Prediction struct {
	ID              string    `json:"id"`
	Condition       string    `json:"condition"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Probability     int       `json:"probability"` // integer percentage 0-100
	Diagnosis       string    `json:"diagnosis,omitempty"`
	PredictionLabel string    `json:"predictionLabel,omitempty"`
	Classification  string    `json:"classification,omitempty"`
	ModelVersion    string    `json:"modelVersion,omitempty"`
	Cached          bool      `json:"cached,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
