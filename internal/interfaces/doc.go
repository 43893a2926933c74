// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Pipeline Interfaces
//
//   - assembler.ProcessStore: Persistence of year processes (internal/assembler/assembler.go)
//   - assembler.TemplateResolver: Workflow name to ruleset resolution (internal/assembler/assembler.go)
//   - importer.RunRecorder: Run progress rows (internal/importer/importer.go)
//   - storage.Store: File listing and relocation (internal/storage/storage.go)
//
// ## Background Work Interfaces
//
//   - tasks.SetRunner: One import per task invocation (internal/tasks/import_set.go)
//   - scheduler.Enqueuer: Scheduler firings into the task queue (internal/scheduler/import_sync.go)
//   - progress.Notifier: Push delivery of run updates (internal/progress/progress.go)
//
// # Adding a New Storage Backend
//
// To import from something other than a local folder (e.g. an S3 bucket):
//
//  1. Implement storage.Store in internal/storage/
//
//     type S3Store struct {
//         bucket string
//     }
//
//     func (s *S3Store) List(dir string) ([]string, error)
//     func (s *S3Store) CopyFile(src, dst string) error
//     func (s *S3Store) Move(src, dst string) error
//     func (s *S3Store) CreateDirectories(dir string) error
//
//     var _ storage.Store = (*S3Store)(nil)
//
//  2. Wire it in place of storage.NewLocal() in entrypoint.go and the
//     import command
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
