// Package scheduler triggers imports of configured sets on their cron
// schedules. Firing a schedule only enqueues an import task; the task
// queue's single worker does the importing, so overlapping schedules
// still run one at a time.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/newspaper-importer/internal/config"
)

// Enqueuer hands a set name to the task queue.
type Enqueuer interface {
	EnqueueImport(setName string) error
}

// ImportScheduler manages the periodic imports of all scheduled sets.
type ImportScheduler struct {
	sets     []config.Set
	enqueuer Enqueuer

	cron       *cron.Cron
	entryIDs   map[string]cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewImportScheduler creates a new scheduler instance.
func NewImportScheduler(sets []config.Set, enqueuer Enqueuer) *ImportScheduler {
	return &ImportScheduler{
		sets:     sets,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
		entryIDs: make(map[string]cron.EntryID),
	}
}

// Start registers the cron job of every set that carries a schedule. Sets
// without a schedule are skipped; a malformed schedule fails startup.
func (s *ImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	scheduled := 0
	for _, set := range s.sets {
		if set.Schedule == "" {
			continue
		}
		name := set.Name
		entryID, err := s.cron.AddFunc(set.Schedule, func() {
			s.enqueue(name)
		})
		if err != nil {
			return fmt.Errorf("invalid cron schedule %q for set %s: %w", set.Schedule, name, err)
		}
		s.entryIDs[name] = entryID
		scheduled++
	}

	if scheduled == 0 {
		log.Printf("Import scheduler: no scheduled sets, nothing to do")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Import scheduler: started with %d scheduled sets", scheduled)
	for name := range s.entryIDs {
		if next := s.nextRunLocked(name); next != nil {
			log.Printf("Import scheduler: set %s next runs at %v", name, next)
		}
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a firing job to finish
// enqueueing.
func (s *ImportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Import scheduler: stopped")
}

// RunNow enqueues an immediate import of a set, outside its schedule.
func (s *ImportScheduler) RunNow(setName string) error {
	return s.enqueuer.EnqueueImport(setName)
}

// IsRunning returns whether the scheduler is active.
func (s *ImportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named set fires next, or nil when it is not
// scheduled.
func (s *ImportScheduler) NextRun(setName string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked(setName)
}

func (s *ImportScheduler) nextRunLocked(setName string) *time.Time {
	entryID, ok := s.entryIDs[setName]
	if !ok {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ImportScheduler) enqueue(setName string) {
	if err := s.enqueuer.EnqueueImport(setName); err != nil {
		log.Printf("Import scheduler: failed to enqueue set %s: %v", setName, err)
		return
	}
	log.Printf("Import scheduler: enqueued set %s", setName)
}
