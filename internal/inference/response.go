package inference

// Response is the raw success body returned by an inference service. All
// fields beyond risk_level and probability are optional; which ones appear
// depends on the condition.
type Response struct {
	RiskLevel       string  `json:"risk_level"`
	Probability     float64 `json:"probability"`
	Diagnosis       string  `json:"diagnosis,omitempty"`
	PredictionLabel string  `json:"prediction_label,omitempty"`
	Classification  string  `json:"classification,omitempty"`
	Recommendation  string  `json:"recommendation,omitempty"`
	ModelVersion    string  `json:"model_version,omitempty"`
	ThresholdUsed   float64 `json:"threshold_used,omitempty"`
}

// errorBody is the failure shape every service is expected to return on
// 4xx/5xx. A missing error field falls back to a generic message.
type errorBody struct {
	Error string `json:"error"`
}

// responseSchema is the advisory shape check applied to success bodies.
// Violations are logged, never fatal: resilience over strictness for
// responses we do not control.
const responseSchema = `{
	"type": "object",
	"required": ["risk_level", "probability"],
	"properties": {
		"risk_level": {"type": "string"},
		"probability": {"type": "number", "minimum": 0, "maximum": 1},
		"diagnosis": {"type": "string"},
		"prediction_label": {"type": "string"},
		"classification": {"type": "string"},
		"recommendation": {"type": "string"},
		"model_version": {"type": "string"}
	}
}`
