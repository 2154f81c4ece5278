package intervention

import (
	"testing"

	"behaviorOpt/domain"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	i, ok := Lookup(domain.InterventionSocialProof)
	require.True(t, ok)
	require.Equal(t, "Social Proof", i.Name)

	// callers get a copy
	i.DefaultConfig["display"] = "mutated"
	again, _ := Lookup(domain.InterventionSocialProof)
	require.IsType(t, map[string]any{}, again.DefaultConfig["display"])

	_, ok = Lookup("telepathy")
	require.False(t, ok)
	require.False(t, IsKnown("telepathy"))
	require.True(t, IsKnown(domain.InterventionAnchoring))
}

func TestMergeConfig(t *testing.T) {
	merged := MergeConfig(domain.InterventionLossAversion, map[string]any{
		"visual": map[string]any{"style": "info"},
		"copy":   "Keep your streak",
	})

	visual := merged["visual"].(map[string]any)
	require.Equal(t, "info", visual["style"])
	require.Equal(t, "modal", visual["type"])
	require.Equal(t, "Keep your streak", merged["copy"])

	timing := merged["timing"].(map[string]any)
	require.Equal(t, float64(0), timing["delay"])

	t.Run("unknown type keeps overrides only", func(t *testing.T) {
		merged := MergeConfig("telepathy", map[string]any{"a": 1})
		require.Equal(t, map[string]any{"a": 1}, merged)
	})
}
