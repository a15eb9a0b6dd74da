package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents the user domain entity
type User struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Username        string         `gorm:"uniqueIndex;not null" json:"username"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName       string         `gorm:"not null" json:"first_name"`
	LastName        string         `gorm:"not null" json:"last_name"`
	ProfileImageURL string         `json:"profile_image_url,omitempty"`
	Password        string         `gorm:"not null" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// RoleNames returns the names of every role assigned to the user
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
