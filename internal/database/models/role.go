package models

import (
	"time"

	"github.com/lib/pq"
)

// Role names seeded by the initial migration
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Role represents an authorization role assignable to users
type Role struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Users []User `gorm:"many2many:user_roles" json:"-"`
}

// TableName overrides the table name
func (Role) TableName() string {
	return "roles"
}
