package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ExperimentType string

const (
	ExperimentTypeABTest       ExperimentType = "ab_test"
	ExperimentTypeMultivariate ExperimentType = "multivariate"
)

type ExperimentStatus string

const (
	ExperimentStatusDraft     ExperimentStatus = "draft"
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusPaused    ExperimentStatus = "paused"
	ExperimentStatusCompleted ExperimentStatus = "completed"
)

type InterventionType string

const (
	InterventionLossAversion       InterventionType = "loss_aversion"
	InterventionSocialProof        InterventionType = "social_proof"
	InterventionCommitmentDevices  InterventionType = "commitment_devices"
	InterventionProgressIndicators InterventionType = "progress_indicators"
	InterventionScarcityUrgency    InterventionType = "scarcity_urgency"
	InterventionAnchoring          InterventionType = "anchoring"
	InterventionReciprocity        InterventionType = "reciprocity"
)

// Experiment is frozen once running; the assignment engine only reads
// ID, TrafficAllocation and Variants.
type Experiment struct {
	ID                string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProjectID         string            `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Name              string            `gorm:"column:name;not null" json:"name"`
	Description       string            `gorm:"column:description" json:"description,omitempty"`
	Hypothesis        string            `gorm:"column:hypothesis;not null" json:"hypothesis"`
	Type              ExperimentType    `gorm:"column:type;not null;default:ab_test" json:"type"`
	Status            ExperimentStatus  `gorm:"column:status;not null;default:draft;index" json:"status"`
	InterventionType  InterventionType  `gorm:"column:intervention_type;not null" json:"intervention_type"`
	SuccessMetrics    datatypes.JSONMap `gorm:"column:success_metrics;type:jsonb" json:"success_metrics"`
	TrafficAllocation int               `gorm:"column:traffic_allocation;not null;default:100" json:"traffic_allocation"`
	TargetingRules    datatypes.JSONMap `gorm:"column:targeting_rules;type:jsonb" json:"targeting_rules"`
	StartedAt         *time.Time        `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt       *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedBy         string            `gorm:"column:created_by" json:"created_by"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Variants []Variant `gorm:"foreignKey:ExperimentID" json:"variants"`
}

// Control returns the variant flagged as control, if any.
func (e Experiment) Control() (Variant, bool) {
	for _, v := range e.Variants {
		if v.IsControl {
			return v, true
		}
	}
	return Variant{}, false
}

// TotalWeight sums the variant weights.
func (e Experiment) TotalWeight() float64 {
	total := 0.0
	for _, v := range e.Variants {
		total += v.WeightPercentage
	}
	return total
}

type Variant struct {
	ID               string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ExperimentID     string            `gorm:"column:experiment_id;type:uuid;not null;index" json:"experiment_id"`
	Name             string            `gorm:"column:name;not null" json:"name"`
	Description      string            `gorm:"column:description" json:"description,omitempty"`
	IsControl        bool              `gorm:"column:is_control;not null;default:false" json:"is_control"`
	Position         int               `gorm:"column:position;not null;default:0" json:"position"` // order of the cumulative weight walk
	WeightPercentage float64           `gorm:"column:weight_percentage;not null" json:"weight_percentage"`
	Configuration    datatypes.JSONMap `gorm:"column:configuration;type:jsonb" json:"configuration"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type ExperimentFilter struct {
	ProjectID string
	Status    ExperimentStatus
}
