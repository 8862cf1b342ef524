package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// BandTask represents a band rendering task for the worker pool
type BandTask struct {
	Band   Band
	Pixels []uint8 // The band's exclusive slice of the output buffer
	Seed   int64   // Seed for the band's own sampler
}

// BandResult contains the result from rendering a band
type BandResult struct {
	BandID int
	Stats  RenderStats
}

// WorkerPool manages parallel band rendering
type WorkerPool struct {
	taskQueue   chan BandTask
	resultQueue chan BandResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual band rendering tasks
type Worker struct {
	ID          int
	renderer    *BandRenderer
	taskQueue   chan BandTask
	resultQueue chan BandResult
}

// NewWorkerPool creates a worker pool for up to maxTasks tasks.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(renderer *BandRenderer, maxTasks, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan BandTask, maxTasks),   // Buffer for all tasks
		resultQueue: make(chan BandResult, maxTasks), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    renderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for all submitted tasks to finish and shuts down the workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a band task to the worker pool
func (wp *WorkerPool) SubmitTask(task BandTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed band result
func (wp *WorkerPool) GetResult() (BandResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Bands never overlap, so writing into task.Pixels needs no locking
		sampler := core.NewSeededSampler(task.Seed)
		stats := w.renderer.RenderBand(task.Band, task.Pixels, sampler)

		w.resultQueue <- BandResult{
			BandID: task.Band.ID,
			Stats:  stats,
		}
	}
}
