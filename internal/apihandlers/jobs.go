package apihandlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"booktranslator/internal/book"
)

// Status is the lifecycle state of a submitted translation job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job tracks one TranslateBook run submitted through the API.
type Job struct {
	ID         string  `json:"id"`
	Status     Status  `json:"status"`
	Progress   float64 `json:"progress"`
	SourceFile string  `json:"source_file"`
	OutputFile string  `json:"output_file,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// jobStore keeps submitted jobs in memory, grounded on the teacher's
// in-process service pattern (no external queue for this API surface).
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*Job)}
}

func (s *jobStore) create(sourceFile string) *Job {
	job := &Job{ID: uuid.NewString(), Status: StatusQueued, SourceFile: sourceFile}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *jobStore) get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *jobStore) update(id string, mutate func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		mutate(job)
	}
}

// run drives orchestrator.TranslateBook to completion for job, recording
// progress and the terminal status.
func run(ctx context.Context, orchestrator *book.Orchestrator, store *jobStore, logger *logrus.Entry, job *Job, sourceFile, destFile string) {
	store.update(job.ID, func(j *Job) { j.Status = StatusRunning })

	out, err := orchestrator.TranslateBook(ctx, sourceFile, destFile, func(fraction float64) {
		store.update(job.ID, func(j *Job) { j.Progress = fraction })
	})

	store.update(job.ID, func(j *Job) {
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			logger.WithError(err).WithField("job_id", job.ID).Warn("translation job failed")
			return
		}
		j.Status = StatusSucceeded
		j.Progress = 1.0
		j.OutputFile = out
	})
}
