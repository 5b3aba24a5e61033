package util

// Progress prints a running count of finished jobs. It satisfies
// batch.Reporter.
type Progress struct {
	errs chan error
	done chan struct{}
}

func NewProgress(total int) Progress {
	p := Progress{make(chan error), make(chan struct{})}
	go func() {
		finished := 0
		errorCount := 0
		for err := range p.errs {
			finished += 1
			if err != nil {
				errorCount += 1
				Verbosef("\r%s                                    \n", err)
			}

			ratio := 100.0 * (float64(finished) / float64(total))
			Verbosef("\r%d of %d pairs done (%0.2f%%, %d not aligned)",
				finished, total, ratio, errorCount)
		}
		Verbosef("\n")
		p.done <- struct{}{}
	}()
	return p
}

func (p Progress) JobDone(err error) {
	p.errs <- err
}

// Close waits for every reported job to be printed.
func (p Progress) Close() {
	close(p.errs)
	<-p.done
}
