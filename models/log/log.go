package log

import (
	"time"
)

// Log is an audited request against an administrative or ownership endpoint.
type Log struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Method     string    `gorm:"type:varchar(10);not null" json:"method"`
	Path       string    `gorm:"type:text;not null" json:"path"`
	IP         string    `gorm:"type:varchar(64)" json:"ip"`
	UserID     string    `gorm:"type:varchar(64);index" json:"user_id,omitempty"`
	StatusCode int       `gorm:"type:int" json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Log) TableName() string {
	return "request_logs"
}
