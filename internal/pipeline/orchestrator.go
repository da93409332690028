package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deckgen/deckgen/internal/config"
)

// Orchestrator manages the conversion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	log      *slog.Logger
	cfg      config.Config
	previews *previewGate

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// previewGate serializes preview rendering: beginning a new render
// cancels the one in flight, so a superseding conversion never waits
// on stale thumbnails.
type previewGate struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (g *previewGate) begin(parent context.Context) context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	return ctx
}

func (g *previewGate) cancelActive() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		log:      log,
		cfg:      cfg,
		previews: &previewGate{},
	}
}

// NewJob creates a queued job. Attach inputs with SetInputs before
// submitting.
func (o *Orchestrator) NewJob(filename string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.cfg, o.log, o.previews)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing. An in-flight preview render is
// cancelled so the new conversion is not delayed behind it.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	o.previews.cancelActive()
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
