package profiles

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/metrics"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

type fakeJobRepo struct {
	jobs  map[uuid.UUID]*models.ProfileUpdateJob
	order []uuid.UUID
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*models.ProfileUpdateJob{}}
}

func (f *fakeJobRepo) Enqueue(_ context.Context, customerID uuid.UUID) (*models.ProfileUpdateJob, error) {
	for _, id := range f.order {
		if job := f.jobs[id]; job.CustomerID == customerID && job.Status == enums.JobQueued {
			return job, nil
		}
	}
	job := &models.ProfileUpdateJob{ID: uuid.New(), CustomerID: customerID, Status: enums.JobQueued}
	f.jobs[job.ID] = job
	f.order = append(f.order, job.ID)
	return job, nil
}

func (f *fakeJobRepo) Get(_ context.Context, id uuid.UUID) (*models.ProfileUpdateJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) List(_ context.Context, status *enums.JobStatus, _ pagination.Page) ([]models.ProfileUpdateJob, int64, error) {
	var out []models.ProfileUpdateJob
	for _, id := range f.order {
		job := f.jobs[id]
		if status == nil || job.Status == *status {
			out = append(out, *job)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) ClaimNextTx(_ *gorm.DB) (*models.ProfileUpdateJob, error) {
	for _, id := range f.order {
		job := f.jobs[id]
		if job.Status == enums.JobQueued {
			now := time.Now()
			job.Status = enums.JobProcessing
			job.Attempts++
			job.ClaimedAt = &now
			cp := *job
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) MarkDone(_ context.Context, id uuid.UUID) error {
	job, ok := f.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	job.Status = enums.JobDone
	return nil
}

func (f *fakeJobRepo) MarkFailed(_ context.Context, id uuid.UUID, jobErr error, maxAttempts int) error {
	job, ok := f.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	msg := jobErr.Error()
	job.LastError = &msg
	if job.Attempts >= maxAttempts {
		job.Status = enums.JobFailed
	} else {
		job.Status = enums.JobQueued
	}
	return nil
}

type fakeDBClient struct{}

func (fakeDBClient) Ping(context.Context) error { return nil }

func (fakeDBClient) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeLock struct {
	available bool
	acquired  int
	released  int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if !f.available {
		return false, nil
	}
	f.acquired++
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.released++
	return nil
}

type fakeBuilder struct {
	err   error
	built []uuid.UUID
}

func (f *fakeBuilder) Build(_ context.Context, customerID uuid.UUID) (*Profile, error) {
	f.built = append(f.built, customerID)
	if f.err != nil {
		return nil, f.err
	}
	return &Profile{CustomerID: customerID}, nil
}

func newTestWorker(repo Repository, builder profileBuilder, lock jobLock) *Worker {
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewWorker(WorkerParams{
		Config:  config.WorkerConfig{PollInterval: time.Millisecond, MaxAttempts: 3},
		DB:      fakeDBClient{},
		Repo:    repo,
		Builder: builder,
		Lock:    lock,
		Metrics: metrics.NewWorkerMetrics(prometheus.NewRegistry()),
		Logger:  log,
	})
}

func TestProcessOneMarksJobDone(t *testing.T) {
	repo := newFakeJobRepo()
	builder := &fakeBuilder{}
	lock := &fakeLock{available: true}
	worker := newTestWorker(repo, builder, lock)

	customerID := uuid.New()
	job, _ := repo.Enqueue(context.Background(), customerID)

	processed, err := worker.processOne(context.Background())
	if err != nil {
		t.Fatalf("processOne: %v", err)
	}
	if !processed {
		t.Fatal("expected a job to be processed")
	}
	if len(builder.built) != 1 || builder.built[0] != customerID {
		t.Fatalf("expected build for %s, got %v", customerID, builder.built)
	}
	if repo.jobs[job.ID].Status != enums.JobDone {
		t.Fatalf("expected job done, got %s", repo.jobs[job.ID].Status)
	}
	if lock.released != 1 {
		t.Fatalf("expected lock released once, got %d", lock.released)
	}
}

func TestProcessOneRequeuesThenFails(t *testing.T) {
	repo := newFakeJobRepo()
	builder := &fakeBuilder{err: errors.New("model timeout")}
	worker := newTestWorker(repo, builder, &fakeLock{available: true})

	job, _ := repo.Enqueue(context.Background(), uuid.New())

	for attempt := 1; attempt <= 3; attempt++ {
		processed, err := worker.processOne(context.Background())
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		if !processed {
			t.Fatalf("attempt %d: expected job to be claimed", attempt)
		}
		want := enums.JobQueued
		if attempt == 3 {
			want = enums.JobFailed
		}
		if got := repo.jobs[job.ID].Status; got != want {
			t.Fatalf("attempt %d: expected status %s, got %s", attempt, want, got)
		}
	}

	if repo.jobs[job.ID].LastError == nil || *repo.jobs[job.ID].LastError != "model timeout" {
		t.Fatal("expected last error recorded")
	}

	processed, err := worker.processOne(context.Background())
	if err != nil || processed {
		t.Fatalf("expected idle after terminal failure, got processed=%v err=%v", processed, err)
	}
}

func TestProcessOneLockNotAcquired(t *testing.T) {
	repo := newFakeJobRepo()
	builder := &fakeBuilder{}
	worker := newTestWorker(repo, builder, &fakeLock{available: false})

	repo.Enqueue(context.Background(), uuid.New())

	processed, err := worker.processOne(context.Background())
	if err != nil {
		t.Fatalf("processOne: %v", err)
	}
	if processed {
		t.Fatal("expected no work without the lock")
	}
	if len(builder.built) != 0 {
		t.Fatal("expected no builds without the lock")
	}
}

func TestProcessOneEmptyQueue(t *testing.T) {
	worker := newTestWorker(newFakeJobRepo(), &fakeBuilder{}, &fakeLock{available: true})

	processed, err := worker.processOne(context.Background())
	if err != nil {
		t.Fatalf("processOne: %v", err)
	}
	if processed {
		t.Fatal("expected idle on empty queue")
	}
}

func TestEnqueueDedupesQueuedJobs(t *testing.T) {
	repo := newFakeJobRepo()
	customerID := uuid.New()

	first, _ := repo.Enqueue(context.Background(), customerID)
	second, _ := repo.Enqueue(context.Background(), customerID)
	if first.ID != second.ID {
		t.Fatal("expected duplicate enqueue to return the existing job")
	}
}

func TestNextBackoff(t *testing.T) {
	base := 15 * time.Second
	if got := nextBackoff(base, base); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
	if got := nextBackoff(maxBackoff, base); got != maxBackoff {
		t.Fatalf("expected cap at %s, got %s", maxBackoff, got)
	}
}
