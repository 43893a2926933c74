package audit

import (
	"log"
	"time"
)

// RunSummary is the persisted record of one finished import run.
type RunSummary struct {
	Set        string `json:"set"`
	Status     string `json:"status"`
	TotalPages int    `json:"total_pages"`
	Processed  int    `json:"processed"`
	Errors     int    `json:"errors"`

	// Years lists the volume years touched by the run, in import order.
	Years []string `json:"years,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Messages holds the error messages of the run, if any.
	Messages []string `json:"messages,omitempty"`
}

// Service provides high-level audit logging for import runs.
type Service struct {
	auditor *Auditor
}

// NewService creates a new audit service.
func NewService(auditor *Auditor) *Service {
	return &Service{auditor: auditor}
}

// RecordRun writes the summary of a finished run. Auditing is best effort;
// a write failure is logged and never fails the run itself.
func (s *Service) RecordRun(summary RunSummary) {
	if _, err := s.auditor.SaveJSON(summary); err != nil {
		log.Printf("Failed to record audit summary for set %s: %v", summary.Set, err)
	}
}
