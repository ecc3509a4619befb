package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system already shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan metadata.JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job metadata.JobTask) {
	if err := job.OnStart(); err != nil {
		core.LogError("job '%s' failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete()
	}
	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

func (js *JobSystem) Workers() int {
	return js.numWorkers
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution.
 * Blocks while the queue is full.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}

// ParallelFor splits [0, n) into one contiguous range per worker, runs fn on
// each range and returns once all of them are done. After Shutdown the whole
// range runs on the calling goroutine. Must not be called from inside a job.
func (js *JobSystem) ParallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	chunks := js.numWorkers
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks

	var done sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		done.Add(1)
		err := js.Submit(metadata.JobTask{
			Name: fmt.Sprintf("range[%d:%d]", lo, hi),
			OnStart: func() error {
				fn(lo, hi)
				return nil
			},
			OnCompletionCallback: done.Done,
		})
		if err != nil {
			fn(lo, hi)
			done.Done()
		}
	}
	done.Wait()
}
