package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRecord  = "CREATE_RECORD"
	ActionUpdateRecord  = "UPDATE_RECORD"
	ActionDeleteRecord  = "DELETE_RECORD"
	ActionImportRecords = "IMPORT_RECORDS"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"

	ActionCreateStation = "CREATE_POLICE_STATION"
	ActionUpdateStation = "UPDATE_POLICE_STATION"
	ActionDeleteStation = "DELETE_POLICE_STATION"
	ActionCreatePort    = "CREATE_PORT"
	ActionUpdatePort    = "UPDATE_PORT"
	ActionDeletePort    = "DELETE_PORT"
)

// AuditLog tracks Who, What, and When for changes to records and reference data
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"userId"` // nil for seeding
	Username   string     `gorm:"type:varchar(100)" json:"username"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entityId"`
	EntityName string     `gorm:"type:varchar(255)" json:"entityName,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
