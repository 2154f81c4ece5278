package domain

import "time"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

type User struct {
	ID             string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email          string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash   string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName      string     `gorm:"column:first_name" json:"first_name"`
	LastName       string     `gorm:"column:last_name" json:"last_name"`
	Role           string     `gorm:"column:role;not null" json:"role"`
	OrganizationID string     `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	EmailVerified  bool       `gorm:"column:email_verified;not null" json:"email_verified"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
