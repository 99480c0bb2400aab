package worker

import (
	"context"
	"iter"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"
)

// EmbedFunc computes the embedding for one chunk of text
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Task is one chunk waiting to be embedded. Seq is its position in the document.
type Task struct {
	Seq  int
	Text string
}

// Result is the outcome of one Task
type Result struct {
	Seq       int
	Text      string
	Embedding []float32
	Err       error
}

// WorkerPool embeds chunks on a fixed number of goroutines.
// Workers only compute embeddings; the caller appends the ordered results,
// so no index is ever written from more than one goroutine.
type WorkerPool struct {
	embed      EmbedFunc
	logger     arbor.ILogger
	numWorkers int
}

// NewWorkerPool creates a pool. numWorkers below 1 is treated as 1.
func NewWorkerPool(embed EmbedFunc, logger arbor.ILogger, numWorkers int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool{
		embed:      embed,
		logger:     logger,
		numWorkers: numWorkers,
	}
}

// Run embeds every text produced by texts and returns the results in input order.
// A cancelled context stops feeding new tasks; tasks not started are omitted.
func (wp *WorkerPool) Run(ctx context.Context, texts iter.Seq[string]) []Result {
	tasks := make(chan Task)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go wp.worker(ctx, i, tasks, results, &wg)
	}

	go func() {
		defer close(tasks)
		seq := 0
		for text := range texts {
			select {
			case <-ctx.Done():
				return
			case tasks <- Task{Seq: seq, Text: text}:
				seq++
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []Result
	for r := range results {
		collected = append(collected, r)
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Seq < collected[j].Seq
	})
	return collected
}

// worker embeds tasks until the task channel is closed
func (wp *WorkerPool) worker(ctx context.Context, workerID int, tasks <-chan Task, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	wp.logger.Trace().
		Int("worker_id", workerID).
		Msg("Embedding worker started")

	for task := range tasks {
		embedding, err := wp.embed(ctx, task.Text)
		if err != nil {
			wp.logger.Debug().
				Int("worker_id", workerID).
				Int("seq", task.Seq).
				Err(err).
				Msg("Embedding task failed")
		}
		results <- Result{Seq: task.Seq, Text: task.Text, Embedding: embedding, Err: err}
	}
}
