package scrape

import (
	"time"
)

// Job is a persisted scrape job status, used when jobs must be visible
// across server instances.
type Job struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"jobId"`
	Status    string    `gorm:"type:varchar(20);not null;index" json:"status"`
	City      string    `gorm:"type:varchar(120)" json:"city"`
	Result    []byte    `json:"-"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Job) TableName() string {
	return "scrape_jobs"
}

// Run records a finished live import for a city.
type Run struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	City      string    `gorm:"type:varchar(120);not null;index" json:"city"`
	Imported  int       `gorm:"not null" json:"imported"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Run) TableName() string {
	return "scrape_runs"
}
