// Package importer drives one import run end to end: discover the files
// of an import set, parse and validate them, group them into years and
// issues, assemble the year documents, and relocate the page images into
// each process's master image folder.
package importer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/newspaper-importer/internal/assembler"
	"github.com/mrlokans/newspaper-importer/internal/audit"
	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/grouping"
	"github.com/mrlokans/newspaper-importer/internal/page"
	"github.com/mrlokans/newspaper-importer/internal/progress"
	"github.com/mrlokans/newspaper-importer/internal/storage"
)

// yearPause is the breather between year groups, giving a concurrent
// poller a chance to observe per-year progress.
const yearPause = 100 * time.Millisecond

// RunRecorder persists run progress rows; the runs repository implements
// it.
type RunRecorder interface {
	Start(setName string, totalItems int) error
	Update(setName string, processed, errorCount int) error
	Complete(setName string, processed, errorCount int) error
}

// Importer runs imports for configured sets.
type Importer struct {
	cfg       *config.Config
	store     storage.Store
	processes assembler.ProcessStore
	templates assembler.TemplateResolver
	runs      RunRecorder
	auditSvc  *audit.Service
	state     *progress.State

	pause time.Duration
}

// New wires an importer. The audit service may be nil; runs are then not
// summarized to disk.
func New(cfg *config.Config, store storage.Store, processStore assembler.ProcessStore, templates assembler.TemplateResolver, runs RunRecorder, auditSvc *audit.Service, state *progress.State) *Importer {
	return &Importer{
		cfg:       cfg,
		store:     store,
		processes: processStore,
		templates: templates,
		runs:      runs,
		auditSvc:  auditSvc,
		state:     state,
		pause:     yearPause,
	}
}

// State exposes the run state for pollers.
func (i *Importer) State() *progress.State {
	return i.state
}

// Run performs one full import of a set. The run always ends completed;
// partial failures surface through the error counter and the run log. The
// returned error is non-nil only when the import folder itself could not
// be read. Context cancellation is observed at year and issue boundaries,
// like Cancel on the run state.
func (i *Importer) Run(ctx context.Context, set *config.Set) error {
	startedAt := time.Now()
	log.Printf("Starting import of set %s from %s", set.Name, set.ImportFolder)

	files, err := i.store.List(set.ImportFolder)
	if err != nil {
		i.state.Start(0)
		i.state.Error(fmt.Sprintf("Failed to read import folder %s: %s", set.ImportFolder, err))
		i.finish(set, startedAt, nil)
		return err
	}

	pages := make([]page.Descriptor, 0, len(files))
	for _, f := range files {
		pages = append(pages, page.Parse(f, set.MorningIdentifier, set.EveningIdentifier))
	}

	i.state.Start(len(pages))
	if err := i.runs.Start(set.Name, len(pages)); err != nil {
		log.Printf("Failed to record run start for set %s: %v", set.Name, err)
	}

	// Every file must be sound before anything is assembled: a single bad
	// file stops the whole run, but all offenders are reported, not just
	// the first.
	if !i.validate(pages) {
		i.state.Log("Import aborted, nothing was assembled.")
		i.finish(set, startedAt, nil)
		return nil
	}

	groups := grouping.GroupByYear(pages)
	i.importGroups(ctx, set, groups)

	i.finish(set, startedAt, groups)
	return nil
}

// validate checks every parsed page and reports each failure. Returns
// true when all pages passed.
func (i *Importer) validate(pages []page.Descriptor) bool {
	ok := true
	for _, p := range pages {
		result := page.Validate(p)
		if result.OK() {
			continue
		}
		ok = false
		i.state.Error(DescribeFailure(p, result))
	}
	return ok
}

// DescribeFailure renders one human-readable line naming every reason a
// page failed validation.
func DescribeFailure(p page.Descriptor, r page.ValidationResult) string {
	var reasons []string
	if !r.DateValid {
		reasons = append(reasons, "no publication date in the file name")
	}
	if !r.PageNumberValid {
		reasons = append(reasons, "no page number in the file name")
	}
	if !r.FileSizeValid {
		reasons = append(reasons, "file is missing or empty")
	}
	return fmt.Sprintf("File %s cannot be imported: %s", p.FileName, strings.Join(reasons, ", "))
}

// importGroups assembles one document per year group. A year that fails to
// begin is skipped whole; issue and page failures within a year are
// counted and the year continues. Cancellation is observed between years
// and between issues.
func (i *Importer) importGroups(ctx context.Context, set *config.Set, groups []grouping.YearGroup) {
	asm := assembler.New(i.processes, i.templates, i.state, set)

	for n, group := range groups {
		if i.cancelled(ctx) {
			i.state.Log("Import cancelled.")
			return
		}
		if n > 0 {
			time.Sleep(i.pause)
		}

		build, err := asm.BeginYear(group)
		if err != nil {
			i.state.Error(fmt.Sprintf("Failed to prepare year %s: %s", group.Year, err))
			i.state.Advance(group.PageCount())
			continue
		}

		masterDir := i.masterDir(set, group.Year)
		for _, issue := range group.Issues {
			if i.cancelled(ctx) {
				break
			}
			if err := build.AddIssue(issue); err != nil {
				i.state.Error(fmt.Sprintf("Failed to add issue %s: %s", issue.Key, err))
			} else {
				i.relocate(set, masterDir, issue.Pages)
				i.state.Log(fmt.Sprintf("Imported issue %s with %d pages", issue.Key, len(issue.Pages)))
			}
			i.state.Advance(len(issue.Pages))

			current, _ := i.state.Counts()
			if err := i.runs.Update(set.Name, current, i.state.Errors()); err != nil {
				log.Printf("Failed to record run progress for set %s: %v", set.Name, err)
			}
		}

		if err := build.Persist(); err != nil {
			i.state.Error(fmt.Sprintf("Failed to persist year %s: %s", group.Year, err))
		}
	}
}

// cancelled reports whether the run should stop: either Cancel flipped the
// running flag or the surrounding context expired.
func (i *Importer) cancelled(ctx context.Context) bool {
	return !i.state.Running() || ctx.Err() != nil
}

// relocate copies or moves an issue's page images into the master folder.
// The document already references them, so a relocation failure is
// reported but does not undo the issue.
func (i *Importer) relocate(set *config.Set, masterDir string, pages []page.Descriptor) {
	for _, p := range pages {
		dst := filepath.Join(masterDir, p.FileName)

		var err error
		if set.DeleteFromSource {
			err = i.store.Move(p.FilePath, dst)
		} else {
			err = i.store.CopyFile(p.FilePath, dst)
		}
		if err != nil {
			i.state.Error(fmt.Sprintf("Failed to relocate %s: %s", p.FileName, err))
		}
	}
}

func (i *Importer) masterDir(set *config.Set, year string) string {
	return filepath.Join(i.cfg.Process.Dir, assembler.ProcessTitle(set, year), "images", "master")
}

// finish closes out the run: final progress row, audit summary, log tail.
func (i *Importer) finish(set *config.Set, startedAt time.Time, groups []grouping.YearGroup) {
	i.state.Log("Import completed.")

	current, total := i.state.Counts()
	errorCount := i.state.Errors()
	if err := i.runs.Complete(set.Name, current, errorCount); err != nil {
		log.Printf("Failed to record run completion for set %s: %v", set.Name, err)
	}

	if i.auditSvc != nil {
		years := make([]string, 0, len(groups))
		for _, g := range groups {
			years = append(years, g.Year)
		}
		i.auditSvc.RecordRun(audit.RunSummary{
			Set:         set.Name,
			Status:      runStatusCompleted,
			TotalPages:  total,
			Processed:   current,
			Errors:      errorCount,
			Years:       years,
			StartedAt:   startedAt,
			CompletedAt: time.Now(),
			Messages:    errorMessages(i.state.History()),
		})
	}

	i.state.Finish()
	log.Printf("Finished import of set %s: %d/%d pages, %d errors", set.Name, current, total, errorCount)
}

const runStatusCompleted = "completed"

func errorMessages(history []progress.LogMessage) []string {
	var out []string
	for _, m := range history {
		if m.Level == progress.LevelError {
			out = append(out, m.Message)
		}
	}
	return out
}
