package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/task"
)

// Submitter queues a computation and returns its id. *task.Server implements it.
type Submitter interface {
	Submit(op compute.Operation, arg float64) (uint64, error)
}

// Awaiter blocks until a task result is available. *task.Server implements it.
type Awaiter interface {
	AwaitResult(ctx context.Context, id uint64) (task.Result, error)
}

var ErrInvalidRange = errors.New("invalid argument range")

// Config controls how a producer draws arguments.
type Config struct {
	// ArgMin and ArgMax bound random arguments to [ArgMin, ArgMax).
	ArgMin float64
	ArgMax float64

	// Seed makes the argument sequence reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig draws arguments from [1, 100).
func DefaultConfig() Config {
	return Config{ArgMin: 1, ArgMax: 100}
}

// ConfigFrom maps the client section of the application configuration.
func ConfigFrom(cfg config.ClientConfig) Config {
	return Config{ArgMin: cfg.ArgMin, ArgMax: cfg.ArgMax, Seed: cfg.Seed}
}

// Validate checks that the argument range is non-empty and finite.
func (c Config) Validate() error {
	if math.IsNaN(c.ArgMin) || math.IsNaN(c.ArgMax) || math.IsInf(c.ArgMin, 0) || math.IsInf(c.ArgMax, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidRange)
	}
	if c.ArgMin >= c.ArgMax {
		return fmt.Errorf("%w: min %v must be less than max %v", ErrInvalidRange, c.ArgMin, c.ArgMax)
	}
	return nil
}

// Producer submits tasks to a Submitter. It is safe for concurrent use.
type Producer struct {
	id        uuid.UUID
	submitter Submitter
	config    Config

	mu  sync.Mutex
	rng *rand.Rand

	logger *slog.Logger
}

// NewProducer creates a producer drawing arguments according to cfg.
func NewProducer(submitter Submitter, cfg Config, logger *slog.Logger) (*Producer, error) {
	if submitter == nil {
		return nil, errors.New("submitter cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	id := uuid.New()
	return &Producer{
		id:        id,
		submitter: submitter,
		config:    cfg,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:    logger.With("component", "producer", "producer_id", id),
	}, nil
}

// ID returns the producer run id.
func (p *Producer) ID() uuid.UUID {
	return p.id
}

// nextArg returns a value in [ArgMin, ArgMax).
func (p *Producer) nextArg() float64 {
	p.mu.Lock()
	f := p.rng.Float64()
	p.mu.Unlock()

	v := p.config.ArgMin + f*(p.config.ArgMax-p.config.ArgMin)
	if v >= p.config.ArgMax {
		v = math.Nextafter(p.config.ArgMax, p.config.ArgMin)
	}
	return v
}

// Produce submits count tasks of op with random arguments and returns their
// ids in submission order. On failure the ids accepted so far are returned
// with the error.
func (p *Producer) Produce(ctx context.Context, op compute.Operation, count int) ([]uint64, error) {
	if count < 0 {
		return nil, fmt.Errorf("task count must not be negative, got %d", count)
	}
	args := make([]float64, count)
	for i := range args {
		args[i] = p.nextArg()
	}
	return p.SubmitAll(ctx, op, args)
}

// SubmitAll submits one task of op per argument, in order.
func (p *Producer) SubmitAll(ctx context.Context, op compute.Operation, args []float64) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for i, arg := range args {
		if err := ctx.Err(); err != nil {
			return ids, fmt.Errorf("submit %s %d of %d: %w", op, i+1, len(args), err)
		}
		id, err := p.submitter.Submit(op, arg)
		if err != nil {
			return ids, fmt.Errorf("submit %s %d of %d: %w", op, i+1, len(args), err)
		}
		ids = append(ids, id)
	}

	p.logger.Debug("tasks submitted", "operation", op, "count", len(ids))
	return ids, nil
}

// Job describes the work of one producer. When Args is set it is submitted
// as is; otherwise Count random arguments are drawn.
type Job struct {
	Operation compute.Operation
	Count     int
	Args      []float64
}

// RunConcurrently runs one producer goroutine per job against submitter and
// returns the ids of each job in job order. A seeded cfg gives job i the
// seed cfg.Seed+i. Errors from all jobs are joined.
func RunConcurrently(ctx context.Context, submitter Submitter, cfg Config, jobs []Job, logger *slog.Logger) ([][]uint64, error) {
	producers := make([]*Producer, len(jobs))
	for i := range jobs {
		jobCfg := cfg
		if cfg.Seed != 0 {
			jobCfg.Seed = cfg.Seed + uint64(i)
		}
		producer, err := NewProducer(submitter, jobCfg, logger)
		if err != nil {
			return nil, err
		}
		producers[i] = producer
	}

	ids := make([][]uint64, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if job.Args != nil {
				ids[i], errs[i] = producers[i].SubmitAll(ctx, job.Operation, job.Args)
			} else {
				ids[i], errs[i] = producers[i].Produce(ctx, job.Operation, job.Count)
			}
		}()
	}
	wg.Wait()

	return ids, errors.Join(errs...)
}

// AwaitAll waits for every id and returns the results in the order of ids.
// Failed computations are returned in Result.Err; only await failures are
// reported through the joined error, and their slots hold a zero Result.
func AwaitAll(ctx context.Context, awaiter Awaiter, ids []uint64) ([]task.Result, error) {
	results := make([]task.Result, len(ids))
	var errs []error
	for i, id := range ids {
		result, err := awaiter.AwaitResult(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results[i] = result
	}
	return results, errors.Join(errs...)
}
