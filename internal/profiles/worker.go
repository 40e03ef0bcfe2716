package profiles

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/metrics"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 2 * time.Minute
	jitterWindow        = 500 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

// jobLock serializes claim attempts across worker instances.
type jobLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type profileBuilder interface {
	Build(ctx context.Context, customerID uuid.UUID) (*Profile, error)
}

// Worker polls the job queue and rebuilds customer profiles in the
// background.
type Worker struct {
	cfg          config.WorkerConfig
	db           dbClient
	repo         Repository
	builder      profileBuilder
	lock         jobLock
	metrics      *metrics.WorkerMetrics
	log          *logger.Logger
	pollInterval time.Duration
}

type WorkerParams struct {
	Config  config.WorkerConfig
	DB      dbClient
	Repo    Repository
	Builder profileBuilder
	Lock    jobLock
	Metrics *metrics.WorkerMetrics
	Logger  *logger.Logger
}

func NewWorker(params WorkerParams) *Worker {
	interval := params.Config.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Worker{
		cfg:          params.Config,
		db:           params.DB,
		repo:         params.Repo,
		builder:      params.Builder,
		lock:         params.Lock,
		metrics:      params.Metrics,
		log:          params.Logger,
		pollInterval: interval,
	}
}

// Run processes jobs until the context is canceled. Errors back off
// exponentially; an idle queue sleeps one poll interval.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.db.Ping(ctx); err != nil {
		return err
	}

	backoff := w.pollInterval
	for {
		select {
		case <-ctx.Done():
			w.log.Info(ctx, "profile worker context canceled")
			return ctx.Err()
		default:
		}

		processed, err := w.processOne(ctx)
		if err != nil {
			w.log.Error(ctx, "profile worker cycle error", err)
			backoff = nextBackoff(backoff, w.pollInterval)
			if err := w.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = w.pollInterval
		if processed {
			continue
		}
		if err := w.sleep(ctx, withJitter(w.pollInterval)); err != nil {
			return err
		}
	}
}

// processOne claims and runs at most one job. The claim happens under
// the distributed lock and its own transaction; the build itself runs
// outside both so a slow AI call never pins a row lock.
func (w *Worker) processOne(ctx context.Context) (bool, error) {
	acquired, err := w.lock.Acquire(ctx)
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}
	defer func() {
		if err := w.lock.Release(ctx); err != nil {
			w.log.Warn(w.log.WithField(ctx, "error", err.Error()), "failed to release worker lock")
		}
	}()

	var claimed *ProfileJob
	err = w.db.WithTx(ctx, func(tx *gorm.DB) error {
		job, err := w.repo.ClaimNextTx(tx)
		if err != nil {
			return err
		}
		if job != nil {
			claimed = &ProfileJob{ID: job.ID, CustomerID: job.CustomerID, Attempts: job.Attempts}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if claimed == nil {
		return false, nil
	}

	w.metrics.IncClaimed()
	w.runJob(ctx, claimed)
	return true, nil
}

// ProfileJob is the claimed work item handed to the build step.
type ProfileJob struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Attempts   int
}

const jobName = "profile_update"

func (w *Worker) runJob(ctx context.Context, job *ProfileJob) {
	fields := map[string]any{
		"job_id":      job.ID.String(),
		"customer_id": job.CustomerID.String(),
		"attempt":     job.Attempts,
	}

	start := time.Now()
	_, buildErr := w.builder.Build(ctx, job.CustomerID)
	w.metrics.ObserveDuration(jobName, time.Since(start))

	if buildErr != nil {
		w.metrics.IncFailure(jobName)
		logCtx := w.log.WithFields(ctx, fields)
		w.log.Warn(w.log.WithField(logCtx, "error", buildErr.Error()), "profile build failed")
		if err := w.repo.MarkFailed(ctx, job.ID, buildErr, w.cfg.MaxAttempts); err != nil {
			w.log.Error(ctx, "failed to mark profile job failed", err)
		}
		return
	}

	w.metrics.IncSuccess(jobName)
	if err := w.repo.MarkDone(ctx, job.ID); err != nil {
		w.log.Error(ctx, "failed to mark profile job done", err)
		return
	}
	w.log.Info(w.log.WithFields(ctx, fields), "customer profile rebuilt")
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		next = maxBackoff
	}
	if next < base {
		next = base
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(jitterSource.Int63n(int64(jitterWindow)))
}
