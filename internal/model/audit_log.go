package model

import "time"

type AuditLogType string

const (
	AuditLogCreate AuditLogType = "CREATE"
	AuditLogUpdate AuditLogType = "UPDATE"
	AuditLogDelete AuditLogType = "DELETE"
)

// AuditLog records one change to a reviewer row.
type AuditLog struct {
	ID          string       `gorm:"primaryKey;size:36"`
	EntityID    string       `gorm:"size:36;not null;index"`
	EntityClass string       `gorm:"size:50;not null"`
	Type        AuditLogType `gorm:"size:20;not null"`
	Message     string       `gorm:"size:1000"`
	CreatedAt   time.Time
}
