// Package entrypoint wires and runs the watch mode: the task queue that
// serializes imports, and the cron scheduler that feeds it.
package entrypoint

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/newspaper-importer/internal/audit"
	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/database"
	"github.com/mrlokans/newspaper-importer/internal/database/processes"
	"github.com/mrlokans/newspaper-importer/internal/database/runs"
	"github.com/mrlokans/newspaper-importer/internal/importer"
	"github.com/mrlokans/newspaper-importer/internal/progress"
	"github.com/mrlokans/newspaper-importer/internal/scheduler"
	"github.com/mrlokans/newspaper-importer/internal/storage"
	"github.com/mrlokans/newspaper-importer/internal/tasks"
)

const shutdownTimeout = 30 * time.Second

// runner runs one named set per task invocation. Each run gets a fresh
// progress state; the queue's single worker guarantees there is never more
// than one.
type runner struct {
	cfg       *config.Config
	store     storage.Store
	processes *processes.Repository
	runs      *runs.Repository
	templates *importer.Templates
	auditSvc  *audit.Service
}

func (r *runner) RunSet(ctx context.Context, name string) error {
	set, err := r.cfg.Set(name)
	if err != nil {
		return err
	}
	notifier := &logNotifier{}
	state := progress.NewState(notifier)
	notifier.state = state
	imp := importer.New(r.cfg, r.store, r.processes, r.templates, r.runs, r.auditSvc, state)
	return imp.Run(ctx, set)
}

// logNotifier writes progress push events to the process log, so watch
// mode imports are observable without an attached poller. Pushes arrive
// outside the state's lock, so reading the counters back is safe.
type logNotifier struct {
	state *progress.State
}

func (n *logNotifier) Send(event string) {
	current, total := n.state.Counts()
	log.Printf("[IMPORT] %s: %d/%d pages, %d errors", event, current, total, n.state.Errors())
}

// enqueuer feeds scheduler firings into the task queue.
type enqueuer struct {
	client *tasks.Client
}

func (e enqueuer) EnqueueImport(setName string) error {
	_, err := e.client.Add(tasks.ImportSetTask{SetName: setName}).Save()
	return err
}

// Run starts watch mode and blocks until SIGINT or SIGTERM. A running
// import is given shutdownTimeout to finish before the process exits.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting newspaper-importer v%s in watch mode", version)

	if !cfg.Tasks.Enabled {
		log.Fatalf("Watch mode requires the task queue; set 'tasks_enabled' to true")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", cfg.Database.Path, err)
	}
	defer db.Close()

	client, err := tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks))
	if err != nil {
		log.Fatalf("Failed to start task queue: %v", err)
	}
	defer client.Close()

	r := &runner{
		cfg:       cfg,
		store:     storage.NewLocal(),
		processes: processes.NewRepository(db.DB),
		runs:      runs.NewRepository(db.DB),
		templates: importer.NewTemplates(cfg),
		auditSvc:  audit.NewService(audit.NewAuditor(cfg.Audit.Dir)),
	}
	client.Register(
		tasks.NewImportSetQueue(r),
		tasks.NewCleanupAuditFilesQueue(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	// One audit sweep per process start keeps the summaries bounded
	// without a dedicated maintenance schedule.
	if _, err := client.Add(tasks.CleanupAuditFilesTask{AuditDir: cfg.Audit.Dir}).Save(); err != nil {
		log.Printf("Failed to enqueue audit cleanup: %v", err)
	}

	sched := scheduler.NewImportScheduler(cfg.Sets, enqueuer{client: client})
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down, waiting up to %v for the running import", shutdownTimeout)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	sched.Stop()
	client.Stop(stopCtx)

	log.Println("Watch mode exiting")
}
