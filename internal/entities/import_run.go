package entities

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// ImportRun is the persisted progress row of one import set. There is one
// row per set, reset when a new run starts. A run always ends "completed";
// partial failure is visible only through the error counter.
type ImportRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SetName    string    `gorm:"size:255;uniqueIndex" json:"set_name"`
	Status     RunStatus `gorm:"size:20" json:"status"`
	TotalItems int       `json:"total_items"`
	Processed  int       `json:"processed"`
	Errors     int       `json:"errors"`

	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
