package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/newspaper-importer/internal/assembler"
	"github.com/mrlokans/newspaper-importer/internal/database/processes"
	"github.com/mrlokans/newspaper-importer/internal/database/runs"
	"github.com/mrlokans/newspaper-importer/internal/importer"
	"github.com/mrlokans/newspaper-importer/internal/storage"
)

// Process persistence implementations
var _ assembler.ProcessStore = (*processes.Repository)(nil)

// Template resolution implementations
var _ assembler.TemplateResolver = (*importer.Templates)(nil)

// Run progress implementations
var _ importer.RunRecorder = (*runs.Repository)(nil)

// File store implementations
var _ storage.Store = (*storage.Local)(nil)
