package domain

import "time"

type PlanTier string

const (
	PlanTierFree       PlanTier = "free"
	PlanTierGrowth     PlanTier = "growth"
	PlanTierScale      PlanTier = "scale"
	PlanTierEnterprise PlanTier = "enterprise"
)

// Organization is the tenant that owns users, projects and experiments.
type Organization struct {
	ID                 string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"column:name;not null" json:"name"`
	Subdomain          string     `gorm:"column:subdomain;not null;uniqueIndex" json:"subdomain"`
	PlanTier           PlanTier   `gorm:"column:plan_tier;not null" json:"plan_tier"`
	MonthlyEventLimit  int        `gorm:"column:monthly_event_limit;not null" json:"monthly_event_limit"`
	CurrentMonthEvents int        `gorm:"column:current_month_events;not null" json:"current_month_events"`
	TrialEndsAt        *time.Time `gorm:"column:trial_ends_at" json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
