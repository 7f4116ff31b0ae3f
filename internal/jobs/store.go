package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Job statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job tracks one analysis run.
type Job struct {
	ID         string    `json:"id"`
	CodebaseID string    `json:"codebase_id"`
	Status     string    `json:"status"`
	Progress   string    `json:"progress"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Store is the job-tracking capability. It is injected into the
// orchestrator rather than held as ambient state, so job status survives
// wherever the backing store does.
type Store interface {
	Put(job Job) error
	Get(id string) (Job, error)
	Update(id string, update func(*Job)) error
	List() ([]Job, error)
	Close() error
}

// ErrNotFound is returned when no job exists under an id.
var ErrNotFound = fmt.Errorf("job not found")

// MemoryStore keeps jobs in process memory. Suitable for tests and
// single-shot CLI runs.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Put(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (s *MemoryStore) Update(id string, update func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	update(&job)
	s.jobs[id] = job
	return nil
}

func (s *MemoryStore) List() ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].StartedAt.After(jobs[j].StartedAt) })
	return jobs, nil
}

func (s *MemoryStore) Close() error { return nil }

const jobBucket = "jobs"

// BoltStore persists jobs in a bbolt file, so job state survives process
// restarts.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the job database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create job store directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open job store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(jobBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Put(job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(jobBucket)).Put([]byte(job.ID), data)
	})
}

func (s *BoltStore) Get(id string) (Job, error) {
	var job Job
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(jobBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &job)
	})
	return job, err
}

func (s *BoltStore) Update(id string, update func(*Job)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(jobBucket))
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var job Job
		if err := json.Unmarshal(data, &job); err != nil {
			return fmt.Errorf("failed to decode job %s: %w", id, err)
		}
		update(&job)
		encoded, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to encode job %s: %w", id, err)
		}
		return bucket.Put([]byte(id), encoded)
	})
}

func (s *BoltStore) List() ([]Job, error) {
	var jobs []Job
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(jobBucket)).ForEach(func(_, data []byte) error {
			var job Job
			if err := json.Unmarshal(data, &job); err != nil {
				return err
			}
			jobs = append(jobs, job)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].StartedAt.After(jobs[j].StartedAt) })
	return jobs, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
