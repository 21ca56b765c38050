package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"finesse/internal/dto"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	QueuePrecos = "jobs:precos"

	JobPrecoAlterado = "preco.alterado"

	// MaxAttempts counts the first run.
	MaxAttempts = 3
)

var jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "finesse_jobs_processed_total",
	Help: "Background jobs by type and outcome (ok, retry, dlq).",
}, []string{"type", "result"})

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// HandlerFunc processes one job payload. A returned error schedules a retry.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Handlers maps job types to their processors.
type Handlers map[string]HandlerFunc

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// PrecoAlterado enqueues a price-change event.
func (d *Dispatcher) PrecoAlterado(ctx context.Context, ev dto.PrecoAlteradoEvent) error {
	return d.enqueue(ctx, QueuePrecos, JobPrecoAlterado, ev)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

// RunWorkerPool runs numWorkers consumers of QueuePrecos until ctx is done.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func RunWorkerPool(ctx context.Context, rdb *redis.Client, handlers Handlers, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		id := i
		g.Go(func() error {
			runWorker(ctx, rdb, handlers, id)
			return nil
		})
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return g.Wait()
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueuePrecos).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// outcome of one attempt, decided without touching Redis.
type outcome int

const (
	outcomeOK outcome = iota
	outcomeRetry
	outcomeDLQ
)

func runJob(ctx context.Context, handlers Handlers, job *Job) (outcome, error) {
	h, ok := handlers[job.Type]
	if !ok {
		return outcomeDLQ, errors.New("no handler for job type " + job.Type)
	}
	job.Attempts++
	if err := h(ctx, job.Payload); err != nil {
		if job.Attempts >= MaxAttempts {
			return outcomeDLQ, err
		}
		return outcomeRetry, err
	}
	return outcomeOK, nil
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(raw)}, err.Error())
		return
	}

	res, err := runJob(ctx, handlers, &job)
	switch res {
	case outcomeOK:
		jobsProcessed.WithLabelValues(job.Type, "ok").Inc()
		log.Debug().Str("type", job.Type).Str("job_id", job.ID).Msg("job processed")
	case outcomeRetry:
		jobsProcessed.WithLabelValues(job.Type, "retry").Inc()
		log.Warn().Err(err).Str("type", job.Type).Str("job_id", job.ID).Int("attempts", job.Attempts).Msg("job failed, requeueing")
		encoded, mErr := json.Marshal(job)
		if mErr == nil {
			mErr = rdb.LPush(ctx, queue, encoded).Err()
		}
		if mErr != nil {
			SendToDLQ(ctx, rdb, queue, job, mErr.Error())
		}
	case outcomeDLQ:
		jobsProcessed.WithLabelValues(job.Type, "dlq").Inc()
		SendToDLQ(ctx, rdb, queue, job, err.Error())
	}
}
