package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"syndex/internal/syndicate"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one document's syndicate extraction. Section-not-found and
// zero appointments complete normally; only malformed input fails.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Issuer   string
	Status   JobStatus
	Error    string

	Result *syndicate.ExtractionResult

	CreatedAt time.Time
	UpdatedAt time.Time

	fileData []byte
}

// NewJob creates a queued job holding the raw document bytes.
func NewJob(filename, issuer string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Issuer:    issuer,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

func (j *Job) SetStatus(s JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = s
	j.UpdatedAt = time.Now()
}

func (j *Job) SetResult(res *syndicate.ExtractionResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Result = res
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
	j.fileData = nil
}

func (j *Job) SetFailed(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Error = msg
	j.Status = StatusFailed
	j.UpdatedAt = time.Now()
	j.fileData = nil
}

// JobView is a consistent copy of a job, safe to serialize while workers
// keep updating the original.
type JobView struct {
	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Issuer   string    `json:"issuer,omitempty"`
	Status   JobStatus `json:"status"`
	Error    string    `json:"error,omitempty"`

	Result *syndicate.ExtractionResult `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a copy safe to serialize while workers update the job.
func (j *Job) Snapshot() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobView{
		ID:        j.ID,
		Filename:  j.Filename,
		Issuer:    j.Issuer,
		Status:    j.Status,
		Error:     j.Error,
		Result:    j.Result,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup evicts jobs whose last update is older than the TTL.
func (s *JobStore) Cleanup() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		job.mu.Lock()
		stale := job.UpdatedAt.Before(cutoff)
		job.mu.Unlock()
		if stale {
			delete(s.jobs, id)
		}
	}
}

// Len returns the number of live jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
