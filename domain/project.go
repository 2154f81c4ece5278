package domain

import "time"

type Project struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Domain         string    `gorm:"column:domain;not null" json:"domain"`
	TrackingID     string    `gorm:"column:tracking_id;not null;uniqueIndex" json:"tracking_id"`
	OrganizationID string    `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
