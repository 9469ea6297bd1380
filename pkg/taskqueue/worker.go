package taskqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker polls the store for due tasks and executes them on a pool of
// goroutines. A claimed task is marked running before execution, so a
// crashed worker leaves it stuck; the reconciliation sweep covers the
// completion path regardless.
type Worker struct {
	log          *slog.Logger
	store        Store
	mux          *Mux
	pollInterval time.Duration
	batchSize    int
	concurrency  int
}

func NewWorker(log *slog.Logger, store Store, mux *Mux, pollInterval time.Duration, concurrency int) *Worker {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Worker{
		log:          log,
		store:        store,
		mux:          mux,
		pollInterval: pollInterval,
		batchSize:    50,
		concurrency:  concurrency,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	tasks := make(chan Task)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				w.execute(ctx, t)
			}
		}()
	}

	t := time.NewTicker(w.pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			close(tasks)
			wg.Wait()
			w.log.Info("task worker stopped")
			return nil
		case <-t.C:
			due, err := w.store.ClaimDue(ctx, time.Now().UTC(), w.batchSize)
			if err != nil {
				w.log.Error("claim due tasks failed", "err", err)
				continue
			}
			for _, task := range due {
				select {
				case tasks <- task:
				case <-ctx.Done():
				}
			}
		}
	}
}

func (w *Worker) execute(ctx context.Context, t Task) {
	h, ok := w.mux.handler(t.Kind)
	if !ok {
		w.log.Error("no handler for task", "task_id", t.ID, "kind", t.Kind)
		_ = w.store.MarkFailed(ctx, t.ID, "no handler registered for kind "+t.Kind)
		return
	}

	result, err := h(ctx, t.Payload)
	if err != nil {
		w.log.Error("task failed", "task_id", t.ID, "kind", t.Kind, "err", err)
		if merr := w.store.MarkFailed(ctx, t.ID, err.Error()); merr != nil {
			w.log.Error("mark failed error", "task_id", t.ID, "err", merr)
		}
		return
	}
	w.log.Info("task succeeded", "task_id", t.ID, "kind", t.Kind, "result", result)
	if merr := w.store.MarkSucceeded(ctx, t.ID, result); merr != nil {
		w.log.Error("mark succeeded error", "task_id", t.ID, "err", merr)
	}
}
