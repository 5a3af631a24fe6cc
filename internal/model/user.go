package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is an identity allowed to sign in to the system
type User struct {
	ID           uuid.UUID                       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string                          `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string                          `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string                          `gorm:"type:varchar(255);not null" json:"displayName"`
	Role         Role                            `gorm:"type:varchar(30);not null;default:'user'" json:"role"`
	Permissions  datatypes.JSONSlice[Permission] `gorm:"type:jsonb;not null;default:'[]'" json:"permissions"`
	CreatedAt    time.Time                       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                       `gorm:"autoUpdateTime" json:"updatedAt"`
}
