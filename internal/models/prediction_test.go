package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskFromUpstream(t *testing.T) {
	tests := []struct {
		label string
		want  RiskLevel
	}{
		{"Low", RiskLow},
		{"Borderline", RiskModerate},
		{"High", RiskHigh},
		// Unknown labels must never read as low or high.
		{"Medium", RiskModerate},
		{"high", RiskModerate},
		{"", RiskModerate},
		{"CRITICAL", RiskModerate},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskFromUpstream(tt.label))
		})
	}
}

func TestProbabilityPercent(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"typical", 0.82, 82},
		{"rounds half up", 0.005, 1},
		{"rounds down", 0.824, 82},
		{"zero", 0, 0},
		{"one", 1, 100},
		{"clamped below", -0.2, 0},
		{"clamped above", 1.7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProbabilityPercent(tt.in))
		})
	}
}
