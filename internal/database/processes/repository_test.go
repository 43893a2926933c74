package processes

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/newspaper-importer/internal/database"
	"github.com/mrlokans/newspaper-importer/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_processes_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db.DB)

	process := &entities.Process{
		Title:    "liech_volksblatt_1925",
		Workflow: "Newspaper_workflow",
		Year:     "1925",
		Document: []byte(`{"nodes":[]}`),
	}
	require.NoError(t, repo.Create(process))
	assert.NotZero(t, process.ID)

	loaded, err := repo.GetByTitle("liech_volksblatt_1925")
	require.NoError(t, err)
	assert.Equal(t, "1925", loaded.Year)
	assert.Equal(t, []byte(`{"nodes":[]}`), loaded.Document)

	t.Run("missing title", func(t *testing.T) {
		_, err := repo.GetByTitle("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate title rejected", func(t *testing.T) {
		err := repo.Create(&entities.Process{Title: "liech_volksblatt_1925"})
		assert.Error(t, err)
	})
}

func TestRepository_SaveDocument(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db.DB)

	process := &entities.Process{Title: "liech_volksblatt_1926", Year: "1926"}
	require.NoError(t, repo.Create(process))

	require.NoError(t, repo.SaveDocument(process, []byte(`{"nodes":[{"type":"Newspaper"}]}`)))

	loaded, err := repo.GetByTitle("liech_volksblatt_1926")
	require.NoError(t, err)
	assert.Contains(t, string(loaded.Document), "Newspaper")
}

func TestRepository_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRepository(db.DB)
	require.NoError(t, repo.Create(&entities.Process{Title: "a_1925", Year: "1925"}))
	require.NoError(t, repo.Create(&entities.Process{Title: "a_1926", Year: "1926"}))

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
