package domain

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	ID             string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID string            `gorm:"column:organization_id;type:uuid;not null;index:idx_events_org_project" json:"organization_id"`
	ProjectID      string            `gorm:"column:project_id;type:uuid;not null;index:idx_events_org_project" json:"project_id"`
	UserID         string            `gorm:"column:user_id;not null;index" json:"user_id"` // may be an anonymous client id
	EventType      string            `gorm:"column:event_type;not null;index" json:"event_type"`
	Properties     datatypes.JSONMap `gorm:"column:properties;type:jsonb" json:"properties"`
	Context        datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
	Assignments    datatypes.JSONMap `gorm:"column:assignments;type:jsonb" json:"assignments"` // experiment id -> variant id
	SessionID      string            `gorm:"column:session_id" json:"session_id"`
	Timestamp      time.Time         `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

// IsConversion reports whether the client flagged the event as a conversion.
// The flag follows JavaScript truthiness since browser SDKs send it as-is:
// false, 0, NaN, "" and null are falsy, anything else is truthy.
func (e AnalyticsEvent) IsConversion() bool {
	if e.Properties == nil {
		return false
	}
	v, ok := e.Properties["conversion"]
	if !ok {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case int64:
		return v != 0
	}
	return true
}
