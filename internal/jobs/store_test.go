package jobs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	boltStore, err := NewBoltStore(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { boltStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   boltStore,
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			job := Job{
				ID:         "job-1",
				CodebaseID: "demo",
				Status:     StatusRunning,
				Progress:   "cloning",
				StartedAt:  time.Now().UTC().Truncate(time.Second),
			}
			require.NoError(t, store.Put(job))

			got, err := store.Get("job-1")
			require.NoError(t, err)
			assert.Equal(t, StatusRunning, got.Status)
			assert.Equal(t, "cloning", got.Progress)

			err = store.Update("job-1", func(j *Job) {
				j.Status = StatusCompleted
				j.Progress = "done"
			})
			require.NoError(t, err)

			got, err = store.Get("job-1")
			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, got.Status)
			assert.Equal(t, "done", got.Progress)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			err = store.Update("missing", func(j *Job) { j.Status = StatusFailed })
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	base := time.Now().UTC().Truncate(time.Second)
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(Job{ID: "old", StartedAt: base.Add(-time.Hour)}))
			require.NoError(t, store.Put(Job{ID: "new", StartedAt: base}))

			list, err := store.List()
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "new", list[0].ID)
			assert.Equal(t, "old", list[1].ID)
		})
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	store, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(Job{ID: "persisted", Status: StatusCompleted, StartedAt: time.Now()}))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	job, err := reopened.Get("persisted")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
}
