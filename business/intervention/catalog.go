package intervention

import (
	"encoding/json"

	"behaviorOpt/domain"
)

// Intervention is a behavioral nudge a variant can apply on the client.
type Intervention struct {
	Type          domain.InterventionType `json:"type"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	DefaultConfig map[string]any          `json:"default_config"`
}

var catalog = map[domain.InterventionType]Intervention{
	domain.InterventionLossAversion: {
		Type:        domain.InterventionLossAversion,
		Name:        "Loss Aversion",
		Description: "Emphasize what users might lose rather than what they might gain",
		DefaultConfig: map[string]any{
			"message": map[string]any{"template": "Don't lose access to {{feature}}", "variables": []any{"feature"}},
			"timing":  map[string]any{"trigger": "exit_intent", "delay": 0},
			"visual":  map[string]any{"type": "modal", "style": "warning", "prominence": "high"},
		},
	},
	domain.InterventionSocialProof: {
		Type:        domain.InterventionSocialProof,
		Name:        "Social Proof",
		Description: "Show evidence of other users taking desired actions",
		DefaultConfig: map[string]any{
			"dataSource": map[string]any{"type": "dynamic", "updateFrequency": "realtime"},
			"display":    map[string]any{"format": "notification", "position": "bottom-left"},
			"content":    map[string]any{"template": "{{count}} people {{action}} in the last {{timeframe}}", "variables": []any{"count", "action", "timeframe"}},
		},
	},
	domain.InterventionCommitmentDevices: {
		Type:        domain.InterventionCommitmentDevices,
		Name:        "Commitment Devices",
		Description: "Help users commit to goals and follow through",
		DefaultConfig: map[string]any{
			"commitment": map[string]any{"type": "goal_setting", "visibility": "private"},
			"reminders":  map[string]any{"enabled": true, "frequency": "weekly", "channel": "email"},
			"tracking":   map[string]any{"showProgress": true, "celebrateMilestones": true},
		},
	},
	domain.InterventionProgressIndicators: {
		Type:        domain.InterventionProgressIndicators,
		Name:        "Progress Indicators",
		Description: "Show users their progress toward goals",
		DefaultConfig: map[string]any{
			"visual":      map[string]any{"type": "progress_bar", "showPercentage": true, "animated": true},
			"milestones":  map[string]any{"enabled": true, "rewards": []any{"badge", "message", "unlock_feature"}},
			"persistence": map[string]any{"saveProgress": true, "showOnReturn": true},
		},
	},
	domain.InterventionScarcityUrgency: {
		Type:        domain.InterventionScarcityUrgency,
		Name:        "Scarcity & Urgency",
		Description: "Create time or quantity limits to encourage action",
		DefaultConfig: map[string]any{
			"scarcity":  map[string]any{"type": "time_based", "display": "countdown"},
			"urgency":   map[string]any{"deadline": nil, "showTimer": true, "warningThresholds": []any{24, 6, 1}},
			"messaging": map[string]any{"tone": "helpful", "updateFrequency": "dynamic"},
		},
	},
	domain.InterventionAnchoring: {
		Type:        domain.InterventionAnchoring,
		Name:        "Anchoring",
		Description: "Set reference points that influence decisions",
		DefaultConfig: map[string]any{
			"anchor":     map[string]any{"type": "price", "position": "first"},
			"comparison": map[string]any{"showOriginal": true, "highlight": "savings"},
			"visual":     map[string]any{"strikethrough": true, "emphasizeDifference": true},
		},
	},
	domain.InterventionReciprocity: {
		Type:        domain.InterventionReciprocity,
		Name:        "Reciprocity",
		Description: "Give value first to encourage reciprocal action",
		DefaultConfig: map[string]any{
			"gift":      map[string]any{"type": "trial_extension", "timing": "immediate"},
			"followUp":  map[string]any{"delay": 3, "action": "soft_ask"},
			"messaging": map[string]any{"emphasizeValue": true, "noStringsAttached": true},
		},
	},
}

func Lookup(t domain.InterventionType) (Intervention, bool) {
	i, ok := catalog[t]
	if !ok {
		return Intervention{}, false
	}
	i.DefaultConfig = deepCopy(i.DefaultConfig)
	return i, true
}

func IsKnown(t domain.InterventionType) bool {
	_, ok := catalog[t]
	return ok
}

// MergeConfig overlays overrides on the intervention defaults. Nested maps are
// merged key by key; any other override value replaces the default.
func MergeConfig(t domain.InterventionType, overrides map[string]any) map[string]any {
	base := map[string]any{}
	if i, ok := catalog[t]; ok {
		base = deepCopy(i.DefaultConfig)
	}
	return merge(base, overrides)
}

func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}

// deepCopy goes through JSON because the configs end up in a jsonb column
// anyway; numbers come back as float64.
func deepCopy(m map[string]any) map[string]any {
	raw, err := json.Marshal(m)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
