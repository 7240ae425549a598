package scanner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"shaihulud/pkg/github"
)

// UserScanner scans a single user. *Scanner is the production implementation.
type UserScanner interface {
	Scan(ctx context.Context, username string) Outcome
}

var _ UserScanner = (*Scanner)(nil)

// Dispatcher fans usernames out to a fixed pool of workers
type Dispatcher struct {
	scanner UserScanner
	workers int
	logger  logrus.FieldLogger
	runID   string
}

// NewDispatcher creates a dispatcher running at most workers scans at once
func NewDispatcher(scanner UserScanner, workers int, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Dispatcher{
		scanner: scanner,
		workers: workers,
		logger:  logger,
	}
}

// WithRunID tags the run's summary and logs with id instead of a fresh UUID
func (d *Dispatcher) WithRunID(id string) *Dispatcher {
	d.runID = id
	return d
}

type scanJob struct {
	username string
}

// Run scans every username and calls onResult once per username, in
// completion order, from the calling goroutine. Duplicate usernames are
// scanned once per occurrence. Run returns when every scan has finished.
func (d *Dispatcher) Run(ctx context.Context, usernames []string, onResult func(Result)) Summary {
	agg := newResultAggregator(d.runID, len(usernames))
	numJobs := len(usernames)
	if numJobs == 0 {
		return agg.result()
	}

	numWorkers := EffectiveWorkers(d.workers, numJobs)
	log := d.logger.WithFields(logrus.Fields{
		"run_id":  agg.summary.RunID,
		"users":   numJobs,
		"workers": numWorkers,
	})
	log.Debug("dispatch started")

	jobChan := make(chan scanJob, minInt(numJobs, 100))
	resultChan := make(chan Result, numJobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.worker(ctx, jobChan, resultChan)
		}()
	}

	go func() {
		defer close(jobChan)
		for _, username := range usernames {
			jobChan <- scanJob{username: username}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for res := range resultChan {
		agg.add(res)
		if onResult != nil {
			onResult(res)
		}
	}

	summary := agg.result()
	log.WithFields(logrus.Fields{
		"flagged": summary.Flagged,
		"clean":   summary.Clean,
		"failed":  summary.Failed,
	}).Debug("dispatch finished")

	return summary
}

// worker runs one scan at a time until the job channel is drained
func (d *Dispatcher) worker(ctx context.Context, jobs <-chan scanJob, results chan<- Result) {
	for job := range jobs {
		results <- Result{
			Username: job.username,
			Outcome:  d.scanSafely(ctx, job.username),
		}
	}
}

// scanSafely turns a panic inside a scan into a Failed outcome for that user.
func (d *Dispatcher) scanSafely(ctx context.Context, username string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"username": username,
				"panic":    r,
			}).Error("scan panicked")
			outcome = Failed(github.NewError(github.ErrorTypeUnexpected, fmt.Sprint(r), nil))
		}
	}()

	return d.scanner.Scan(ctx, username)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
