// Package processes provides database operations for digitization
// processes: the process store the document assembler persists through.
package processes

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/newspaper-importer/internal/entities"
)

// ErrNotFound is returned when no process exists for a title.
var ErrNotFound = errors.New("process not found")

// Repository handles all process database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new process repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByTitle loads the process with the exact title.
func (r *Repository) GetByTitle(title string) (*entities.Process, error) {
	var process entities.Process
	err := r.db.Where("title = ?", title).First(&process).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load process %s: %w", title, err)
	}
	return &process, nil
}

// Create persists a new process record.
func (r *Repository) Create(process *entities.Process) error {
	if err := r.db.Create(process).Error; err != nil {
		return fmt.Errorf("failed to create process %s: %w", process.Title, err)
	}
	return nil
}

// SaveDocument writes the serialized document model of a process back.
func (r *Repository) SaveDocument(process *entities.Process, document []byte) error {
	process.Document = document
	err := r.db.Model(process).Update("document", document).Error
	if err != nil {
		return fmt.Errorf("failed to save document of process %s: %w", process.Title, err)
	}
	return nil
}

// List returns all processes, newest first.
func (r *Repository) List() ([]entities.Process, error) {
	var processes []entities.Process
	err := r.db.Order("created_at desc").Find(&processes).Error
	return processes, err
}
