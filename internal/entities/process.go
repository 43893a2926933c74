package entities

import "time"

// Process is one persisted digitization process: the unit of work holding
// the document model of a single newspaper volume (one per year and set).
type Process struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:255;uniqueIndex" json:"title"`
	Workflow string `gorm:"size:255" json:"workflow"`
	Year     string `gorm:"size:8;index" json:"year"`

	// Document is the JSON-serialized document model; see the document
	// package for its structure.
	Document []byte `gorm:"type:blob" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Process) TableName() string {
	return "processes"
}
