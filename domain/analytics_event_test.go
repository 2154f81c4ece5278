package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyticsEvent_IsConversion(t *testing.T) {
	cases := []struct {
		name  string
		props map[string]any
		want  bool
	}{
		{"no properties", nil, false},
		{"flag missing", map[string]any{"value": 10.0}, false},
		{"true", map[string]any{"conversion": true}, true},
		{"false", map[string]any{"conversion": false}, false},
		{"null", map[string]any{"conversion": nil}, false},
		{"string true", map[string]any{"conversion": "true"}, true},
		{"string false is still truthy", map[string]any{"conversion": "false"}, true},
		{"string yes", map[string]any{"conversion": "yes"}, true},
		{"empty string", map[string]any{"conversion": ""}, false},
		{"one", map[string]any{"conversion": 1.0}, true},
		{"zero", map[string]any{"conversion": 0.0}, false},
		{"nan", map[string]any{"conversion": math.NaN()}, false},
		{"object", map[string]any{"conversion": map[string]any{}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := AnalyticsEvent{Properties: tc.props}
			require.Equal(t, tc.want, e.IsConversion())
		})
	}
}
