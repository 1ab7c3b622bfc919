package ingestion

import (
	"context"
	"sort"
	"sync"

	"file-ingestion-service/internal/models"
)

// memRepo is an in-memory JobRepository. It hands out copies so a caller
// mutating a loaded job cannot change the store without going through
// Finalize or UpdateProgress, matching the real repository.
type memRepo struct {
	mu   sync.Mutex
	jobs map[string]models.IngestionJob

	createErr   error
	finalizeErr error
}

func newMemRepo() *memRepo {
	return &memRepo{jobs: make(map[string]models.IngestionJob)}
}

func (r *memRepo) Create(ctx context.Context, job *models.IngestionJob) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id string) (*models.IngestionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := job
	return &copied, nil
}

func (r *memRepo) GetStatus(ctx context.Context, id string) (models.FileStatus, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return "", 0, models.ErrNotFound
	}
	return job.Status, job.Progress, nil
}

func (r *memRepo) List(ctx context.Context) ([]models.JobSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summaries := make([]models.JobSummary, 0, len(r.jobs))
	for _, job := range r.jobs {
		summaries = append(summaries, job.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (r *memRepo) UpdateProgress(ctx context.Context, id string, status models.FileStatus, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return models.ErrNotFound
	}
	job.Status = status
	job.Progress = progress
	r.jobs[id] = job
	return nil
}

func (r *memRepo) Finalize(ctx context.Context, job *models.IngestionJob) error {
	if r.finalizeErr != nil {
		return r.finalizeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return models.ErrNotFound
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (*models.IngestionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(r.jobs, id)
	copied := job
	return &copied, nil
}

// memQueue records dispatched parse tasks.
type memQueue struct {
	mu         sync.Mutex
	enqueued   []string
	enqueueErr error
}

func (q *memQueue) EnqueueParse(ctx context.Context, fileID string) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, fileID)
	return nil
}

func (q *memQueue) enqueuedIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.enqueued...)
}
