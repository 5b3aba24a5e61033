package batch

import (
	"sync"
)

type pool struct {
	wg       *sync.WaitGroup
	jobs     chan Job
	outcomes chan Outcome
}

func (d *Driver) newWorkers(numWorkers int) pool {
	jobs := make(chan Job, numWorkers*2)
	outcomes := make(chan Outcome, numWorkers*2)
	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				outcomes <- d.process(job)
			}
		}()
	}
	return pool{wg, jobs, outcomes}
}

func (p pool) done() {
	close(p.jobs)
	p.wg.Wait() // wait for workers to finish sending outcomes
	close(p.outcomes)
}

func (p pool) enqueue(job Job) {
	p.jobs <- job
}
