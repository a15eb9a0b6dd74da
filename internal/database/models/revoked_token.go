package models

import (
	"time"
)

// RevokedToken denylists an access token that was signed out before its
// natural expiry. Existence of a row means the token is rejected regardless
// of signature validity. Rows are pruned by the cleanup worker once the
// token's signed expiry has passed.
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Token     string    `gorm:"index;not null" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	RevokedAt time.Time `gorm:"not null" json:"revoked_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
