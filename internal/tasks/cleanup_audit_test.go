package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupAuditFilesProcessor(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(oldFile, []byte("{}"), 0644))
	oldTime := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	newFile := filepath.Join(dir, "new.json")
	require.NoError(t, os.WriteFile(newFile, []byte("{}"), 0644))

	// Non-JSON files are never touched.
	keepFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(keepFile, []byte("keep"), 0644))
	require.NoError(t, os.Chtimes(keepFile, oldTime, oldTime))

	processor := CleanupAuditFilesProcessor()
	err := processor(context.Background(), CleanupAuditFilesTask{AuditDir: dir, RetentionDays: 30})
	require.NoError(t, err)

	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(newFile)
	assert.NoError(t, err)
	_, err = os.Stat(keepFile)
	assert.NoError(t, err)
}

func TestCleanupAuditFilesMissingDir(t *testing.T) {
	processor := CleanupAuditFilesProcessor()
	err := processor(context.Background(), CleanupAuditFilesTask{
		AuditDir: filepath.Join(t.TempDir(), "missing"),
	})
	assert.NoError(t, err)
}
