// Package runs provides database operations for import run progress rows.
package runs

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/newspaper-importer/internal/entities"
)

// Repository handles import run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new run repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the run row of a set.
func (r *Repository) Get(setName string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.Where("set_name = ?", setName).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Start creates or resets the run row of a set.
func (r *Repository) Start(setName string, totalItems int) error {
	var run entities.ImportRun
	result := r.db.Where("set_name = ?", setName).First(&run)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		run = entities.ImportRun{
			SetName:    setName,
			Status:     entities.RunStatusRunning,
			TotalItems: totalItems,
			StartedAt:  now,
			UpdatedAt:  now,
		}
		return r.db.Create(&run).Error
	} else if result.Error != nil {
		return result.Error
	}

	run.Status = entities.RunStatusRunning
	run.TotalItems = totalItems
	run.Processed = 0
	run.Errors = 0
	run.StartedAt = now
	run.UpdatedAt = now
	run.CompletedAt = nil

	return r.db.Save(&run).Error
}

// Update writes the current counters of an ongoing run.
func (r *Repository) Update(setName string, processed, errorCount int) error {
	return r.db.Model(&entities.ImportRun{}).
		Where("set_name = ?", setName).
		Updates(map[string]any{
			"processed":  processed,
			"errors":     errorCount,
			"updated_at": time.Now(),
		}).Error
}

// Complete marks the run as completed with its final counters.
func (r *Repository) Complete(setName string, processed, errorCount int) error {
	now := time.Now()
	return r.db.Model(&entities.ImportRun{}).
		Where("set_name = ?", setName).
		Updates(map[string]any{
			"status":       entities.RunStatusCompleted,
			"processed":    processed,
			"errors":       errorCount,
			"updated_at":   now,
			"completed_at": now,
		}).Error
}
